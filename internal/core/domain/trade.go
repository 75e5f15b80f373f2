package domain

import "github.com/shopspring/decimal"

// Trade actions recorded by the ledger.
const (
	ActionBuy     = "BUY"
	ActionSell    = "SELL"
	ActionDeposit = "DEPOSIT"
)

// TradeResult summarizes one committed conversion: the rate applied, the
// signed USD movement and the portfolio snapshot after commit.
type TradeResult struct {
	Action       string
	UserID       string
	CurrencyCode string
	Amount       decimal.Decimal
	Rate         decimal.Decimal // currency-to-USD rate applied, 1 for DEPOSIT
	USDDelta     decimal.Decimal // signed change of the USD wallet
	Portfolio    *Portfolio
}

package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// TradingSvcFacade performs conversions against wallet balances. All
// conversions are routed through the USD settlement wallet; both balance
// mutations of an operation commit as one persisted write.
type TradingSvcFacade interface {
	// Buy debits amount×rate from the USD wallet and credits amount into
	// the currency wallet, creating it if absent.
	Buy(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeResult, error)

	// Sell debits amount from the currency wallet and credits amount×rate
	// into the USD wallet. A missing wallet behaves as a zero balance.
	Sell(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeResult, error)

	// Deposit credits the USD settlement wallet directly.
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TradeResult, error)
}

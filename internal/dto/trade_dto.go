package dto

import (
	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// TradeRequest defines the payload for buy and sell operations. The rate is
// always resolved server-side against the cache, never supplied by the
// caller.
type TradeRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// DepositRequest defines the payload for topping up the USD wallet.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// TradeResponse defines the structure for API responses to trade operations.
type TradeResponse struct {
	Action       string            `json:"action"`
	CurrencyCode string            `json:"currencyCode"`
	Amount       decimal.Decimal   `json:"amount"`
	Rate         decimal.Decimal   `json:"rate"`
	USDDelta     decimal.Decimal   `json:"usdDelta"`
	Portfolio    PortfolioResponse `json:"portfolio"`
}

// ToTradeResponse converts a domain.TradeResult to TradeResponse DTO.
func ToTradeResponse(result *domain.TradeResult) TradeResponse {
	return TradeResponse{
		Action:       result.Action,
		CurrencyCode: result.CurrencyCode,
		Amount:       result.Amount,
		Rate:         result.Rate,
		USDDelta:     result.USDDelta,
		Portfolio:    ToPortfolioResponse(result.Portfolio),
	}
}

package dto

import (
	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// displayPrecision is the number of decimal places used when presenting
// aggregate values. Intermediate accumulation is never rounded.
const displayPrecision = 2

// WalletResponse is one wallet inside a portfolio response.
type WalletResponse struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// PortfolioResponse defines the structure for API responses containing a
// user's portfolio.
type PortfolioResponse struct {
	UserID  string           `json:"userID"`
	Wallets []WalletResponse `json:"wallets"`
}

// PortfolioValueResponse carries the aggregate portfolio value in the
// requested base currency, rounded for display.
type PortfolioValueResponse struct {
	BaseCurrency string          `json:"baseCurrency"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

// ToPortfolioResponse converts a domain.Portfolio to PortfolioResponse DTO,
// with wallets in deterministic order.
func ToPortfolioResponse(p *domain.Portfolio) PortfolioResponse {
	resp := PortfolioResponse{
		UserID:  p.UserID,
		Wallets: make([]WalletResponse, 0, len(p.Wallets)),
	}
	for _, code := range p.CurrencyCodes() {
		w := p.Wallets[code]
		resp.Wallets = append(resp.Wallets, WalletResponse{
			CurrencyCode: w.CurrencyCode,
			Balance:      w.Balance,
		})
	}
	return resp
}

// ToPortfolioValueResponse rounds the accumulated total to display precision.
func ToPortfolioValueResponse(baseCurrency string, total decimal.Decimal) PortfolioValueResponse {
	return PortfolioValueResponse{
		BaseCurrency: baseCurrency,
		TotalValue:   total.Round(displayPrecision),
	}
}

package dto

import (
	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	"github.com/valutatrade/valutatrade_hub/internal/utils"
)

// CreateCurrencyRequest defines the structure for adding a catalog entry.
type CreateCurrencyRequest struct {
	CurrencyCode   string          `json:"currencyCode" binding:"required,currency"`
	Kind           string          `json:"kind" binding:"required,oneof=FIAT CRYPTO"`
	Symbol         string          `json:"symbol" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	IssuingCountry string          `json:"issuingCountry"`
	Algorithm      string          `json:"algorithm"`
	MarketCap      decimal.Decimal `json:"marketCap"`
	Tradable       *bool           `json:"tradable"` // defaults to true when omitted
}

// CurrencyResponse defines the structure for API responses containing
// currency details.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Kind         string `json:"kind"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Tradable     bool   `json:"tradable"`
	MarketCap    string `json:"marketCap,omitempty"`
	DisplayInfo  string `json:"displayInfo"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	resp := CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Kind:         string(c.Kind),
		Symbol:       c.Symbol,
		Name:         c.Name,
		Tradable:     c.Tradable,
		DisplayInfo:  c.DisplayInfo(),
	}
	if c.Kind == domain.Crypto {
		resp.MarketCap = utils.FormatWithPrecision(c.MarketCap, 2)
	}
	return resp
}

// ToListCurrencyResponse converts a slice of domain currencies to DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		responses[i] = ToCurrencyResponse(&currencies[i])
	}
	return responses
}

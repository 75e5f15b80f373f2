package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyKind tags a currency as fiat or crypto. Nothing beyond display
// formatting depends on the kind.
type CurrencyKind string

const (
	Fiat   CurrencyKind = "FIAT"
	Crypto CurrencyKind = "CRYPTO"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode   string          `json:"currencyCode"` // Primary Key (e.g., "USD")
	Kind           CurrencyKind    `json:"kind"`
	Symbol         string          `json:"symbol"` // e.g., "$"
	Name           string          `json:"name"`   // e.g., "US Dollar"
	IssuingCountry string          `json:"issuingCountry,omitempty"` // fiat only
	Algorithm      string          `json:"algorithm,omitempty"`      // crypto only
	MarketCap      decimal.Decimal `json:"marketCap,omitempty"`      // crypto only
	Tradable       bool            `json:"tradable"`
	AuditFields
}

// DisplayInfo returns the one-line representation used by the UI and logs.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case Crypto:
		return fmt.Sprintf("[CRYPTO] %s -%s (Algo: %s, MCAP: %s)",
			c.CurrencyCode, c.Name, c.Algorithm, c.MarketCap.String())
	default:
		return fmt.Sprintf("[FIAT] %s -%s (Issuing: %s)",
			c.CurrencyCode, c.Name, c.IssuingCountry)
	}
}

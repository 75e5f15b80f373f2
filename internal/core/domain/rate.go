package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RatePair is a directional exchange rate with its provenance. A pair and
// its inverse are independent entries; they are never derived from one
// another, since a refresh source may quote them with a spread.
type RatePair struct {
	FromCode  string          `json:"fromCode"`
	ToCode    string          `json:"toCode"`
	Rate      decimal.Decimal `json:"rate"` // always > 0
	UpdatedAt time.Time       `json:"updatedAt"`
	Source    string          `json:"source"`
}

// PairKey builds the "FROM_TO" identifier naming a directional rate.
func PairKey(fromCode, toCode string) string {
	return NormalizeCurrencyCode(fromCode) + "_" + NormalizeCurrencyCode(toCode)
}

// SplitPairKey splits "BTC_USD" into ("BTC", "USD"). The second return is
// empty when the key is malformed.
func SplitPairKey(key string) (string, string) {
	from, to, ok := strings.Cut(key, "_")
	if !ok {
		return key, ""
	}
	return from, to
}

// Key returns the pair key for this rate.
func (p RatePair) Key() string {
	return PairKey(p.FromCode, p.ToCode)
}

// Fresh reports whether the pair is within its TTL at the given instant.
// A pair aged exactly ttl is still fresh.
func (p RatePair) Fresh(now time.Time, ttl time.Duration) bool {
	if p.UpdatedAt.IsZero() {
		return false
	}
	return now.Sub(p.UpdatedAt) <= ttl
}

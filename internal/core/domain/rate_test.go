package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

func TestPairKey(t *testing.T) {
	assert.Equal(t, "BTC_USD", domain.PairKey("btc", "usd"))
	assert.Equal(t, "EUR_USD", domain.PairKey(" EUR ", "USD"))

	from, to := domain.SplitPairKey("BTC_USD")
	assert.Equal(t, "BTC", from)
	assert.Equal(t, "USD", to)
}

func TestRatePairFresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 600 * time.Second

	pair := domain.RatePair{
		FromCode: "BTC",
		ToCode:   "USD",
		Rate:     decimal.NewFromFloat(59337.21),
	}

	pair.UpdatedAt = now.Add(-ttl + time.Second)
	assert.True(t, pair.Fresh(now, ttl))

	// Aged exactly ttl is still fresh.
	pair.UpdatedAt = now.Add(-ttl)
	assert.True(t, pair.Fresh(now, ttl))

	pair.UpdatedAt = now.Add(-ttl - time.Second)
	assert.False(t, pair.Fresh(now, ttl))

	pair.UpdatedAt = time.Time{}
	assert.False(t, pair.Fresh(now, ttl))
}

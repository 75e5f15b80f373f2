package ratesource

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// StaticSource serves a fixed quote table. It backs local development and
// tests where no live provider is reachable.
type StaticSource struct {
	quotes map[string]decimal.Decimal
	now    func() time.Time
}

// StaticSourceOption configures a StaticSource.
type StaticSourceOption func(*StaticSource)

// WithStaticClock overrides the clock used to stamp quotes.
func WithStaticClock(now func() time.Time) StaticSourceOption {
	return func(s *StaticSource) {
		s.now = now
	}
}

// WithQuote adds or replaces a quote for a directional pair.
func WithQuote(fromCode, toCode string, rate decimal.Decimal) StaticSourceOption {
	return func(s *StaticSource) {
		s.quotes[domain.PairKey(fromCode, toCode)] = rate
	}
}

// NewStaticSource creates a source preloaded with the default quote table.
func NewStaticSource(opts ...StaticSourceOption) *StaticSource {
	s := &StaticSource{
		quotes: defaultQuotes(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchRate returns the fixed quote for the pair, stamped with the current
// time so callers see it as just refreshed.
func (s *StaticSource) FetchRate(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := domain.PairKey(fromCode, toCode)
	rate, ok := s.quotes[key]
	if !ok {
		return nil, fmt.Errorf("%w: no quote for %s", apperrors.ErrNotFound, key)
	}
	return &domain.RatePair{
		FromCode:  fromCode,
		ToCode:    toCode,
		Rate:      rate,
		UpdatedAt: s.now(),
		Source:    "static",
	}, nil
}

func defaultQuotes() map[string]decimal.Decimal {
	one := decimal.NewFromInt(1)
	btcUSD := decimal.RequireFromString("59337.21")
	eurUSD := decimal.RequireFromString("1.0786")
	ethUSD := decimal.RequireFromString("3720.00")

	return map[string]decimal.Decimal{
		"BTC_USD": btcUSD,
		"USD_BTC": one.DivRound(btcUSD, 12),
		"EUR_USD": eurUSD,
		"USD_EUR": one.DivRound(eurUSD, 12),
		"ETH_USD": ethUSD,
		"USD_ETH": one.DivRound(ethUSD, 12),
		"RUB_USD": decimal.RequireFromString("0.01016"),
		"USD_RUB": decimal.RequireFromString("98.42"),
	}
}

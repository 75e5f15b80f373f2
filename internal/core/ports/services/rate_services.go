package services

import (
	"context"
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// RateSource is the external collaborator the cache refreshes from. The core
// never assumes a specific source; merging of multiple upstreams happens
// behind this interface.
type RateSource interface {
	// FetchRate returns the current quote for a directional pair. Returns
	// apperrors.ErrNotFound when the source has no data for the pair.
	FetchRate(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error)
}

// RateFilter narrows and orders the cached pairs listed by ListRates.
type RateFilter struct {
	Currency string // keep pairs where either side matches
	Base     string // keep pairs whose from-side matches
	Top      int    // keep only the N highest rates (0 = all)
}

// RateListing is a snapshot of the cache contents.
type RateListing struct {
	Pairs       []domain.RatePair
	LastRefresh time.Time
}

// RateSvcFacade is the TTL-fresh exchange-rate cache.
type RateSvcFacade interface {
	// GetRate returns the cached rate for a directional pair, refreshing it
	// from the source when absent or older than the TTL. Fresh entries are
	// returned unchanged; a pair and its inverse are never derived from one
	// another. Returns apperrors.ErrRateUnavailable when no rate can be
	// served.
	GetRate(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error)

	// ListRates returns the cached pairs matching the filter, ordered by
	// rate descending.
	ListRates(ctx context.Context, filter RateFilter) (*RateListing, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// RateRepository defines persistence operations for the exchange-rate cache.
// Each directional pair is an independent entry keyed "FROM_TO".
type RateRepository interface {
	// FindRatePair retrieves the stored rate for a directional pair.
	// Returns apperrors.ErrNotFound when the pair has never been cached.
	FindRatePair(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error)

	// SaveRatePair upserts a refreshed pair, recording fetchedAt as the
	// cache's refresh instant (write-through on every refresh).
	SaveRatePair(ctx context.Context, pair domain.RatePair, fetchedAt time.Time) error

	// ListRatePairs returns every cached pair.
	ListRatePairs(ctx context.Context) ([]domain.RatePair, error)

	// LastRefresh returns the most recent refresh instant, or the zero time
	// when the cache is empty.
	LastRefresh(ctx context.Context) (time.Time, error)
}

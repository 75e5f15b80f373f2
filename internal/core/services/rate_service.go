package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// rateServiceUser tags audit entries for rate lookups, which run without an
// authenticated user.
const rateServiceUser = "rate_service"

// rateService is the process-wide exchange-rate cache. Entries are kept in
// memory, persisted write-through on every refresh, and considered fresh
// while their age stays within the TTL. Each directional pair is independent;
// an inverse is never derived from its counterpart.
type rateService struct {
	BaseService
	rateRepo     portsrepo.RateRepository
	source       portssvc.RateSource
	recorder     portssvc.AuditRecorder
	ttl          time.Duration
	fetchTimeout time.Duration

	mu    sync.Mutex
	pairs map[string]domain.RatePair

	now func() time.Time
}

// RateServiceOption configures optional dependencies of the rate service.
type RateServiceOption func(*rateService)

// WithRateClock overrides the service clock.
func WithRateClock(now func() time.Time) RateServiceOption {
	return func(s *rateService) {
		s.now = now
	}
}

// WithRateAuditRecorder overrides the audit recorder.
func WithRateAuditRecorder(recorder portssvc.AuditRecorder) RateServiceOption {
	return func(s *rateService) {
		s.recorder = recorder
	}
}

// NewRateService creates the TTL-fresh rate cache.
func NewRateService(rateRepo portsrepo.RateRepository, source portssvc.RateSource, ttl, fetchTimeout time.Duration, opts ...RateServiceOption) portssvc.RateSvcFacade {
	s := &rateService{
		rateRepo:     rateRepo,
		source:       source,
		recorder:     NewSlogAuditRecorder(),
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		pairs:        make(map[string]domain.RatePair),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *rateService) GetRate(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error) {
	fromCode = domain.NormalizeCurrencyCode(fromCode)
	toCode = domain.NormalizeCurrencyCode(toCode)

	entry := portssvc.AuditEntry{
		Action:       "GET_RATE",
		UserID:       rateServiceUser,
		CurrencyCode: domain.PairKey(fromCode, toCode),
	}

	pair, err := s.getRate(ctx, fromCode, toCode)
	if pair != nil {
		entry.Rate = pair.Rate
	}
	if err := recordOutcome(ctx, s.recorder, entry, err); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *rateService) getRate(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error) {
	if fromCode == "" || toCode == "" {
		return nil, fmt.Errorf("%w: currency codes must not be empty", apperrors.ErrValidation)
	}

	// A single lock serializes lookup, refresh and write-through, so two
	// callers racing on a stale pair trigger exactly one refresh.
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.PairKey(fromCode, toCode)

	cached, ok := s.pairs[key]
	if !ok {
		stored, err := s.rateRepo.FindRatePair(ctx, fromCode, toCode)
		switch {
		case err == nil:
			cached, ok = *stored, true
			s.pairs[key] = cached
		case errors.Is(err, apperrors.ErrNotFound):
			// never cached; fall through to refresh
		default:
			return nil, fmt.Errorf("%w: reading rate cache for %s: %v", apperrors.ErrPersistence, key, err)
		}
	}

	if ok && cached.Fresh(s.now(), s.ttl) {
		fresh := cached
		return &fresh, nil
	}

	return s.refresh(ctx, fromCode, toCode, key)
}

// refresh performs the single refresh attempt against the external source
// and persists the result write-through. Callers hold s.mu.
func (s *rateService) refresh(ctx context.Context, fromCode, toCode, key string) (*domain.RatePair, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	quote, err := s.source.FetchRate(fctx, fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no source data for %s", apperrors.ErrRateUnavailable, key)
		}
		return nil, fmt.Errorf("%w: fetching %s: %v", apperrors.ErrRateUnavailable, key, err)
	}
	if quote.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: source returned non-positive rate for %s", apperrors.ErrRateUnavailable, key)
	}

	refreshed := domain.RatePair{
		FromCode:  fromCode,
		ToCode:    toCode,
		Rate:      quote.Rate,
		UpdatedAt: quote.UpdatedAt,
		Source:    quote.Source,
	}
	if refreshed.UpdatedAt.IsZero() {
		refreshed.UpdatedAt = s.now()
	}

	if err := s.rateRepo.SaveRatePair(ctx, refreshed, s.now()); err != nil {
		return nil, fmt.Errorf("%w: persisting refreshed rate %s: %v", apperrors.ErrPersistence, key, err)
	}

	s.pairs[key] = refreshed
	s.LogInfo(ctx, "Exchange rate refreshed",
		slog.String("pair", key),
		slog.String("rate", refreshed.Rate.String()),
		slog.String("source", refreshed.Source),
	)

	result := refreshed
	return &result, nil
}

func (s *rateService) ListRates(ctx context.Context, filter portssvc.RateFilter) (*portssvc.RateListing, error) {
	pairs, err := s.rateRepo.ListRatePairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing rate cache: %v", apperrors.ErrPersistence, err)
	}

	currency := domain.NormalizeCurrencyCode(filter.Currency)
	base := domain.NormalizeCurrencyCode(filter.Base)

	filtered := pairs[:0:0]
	for _, p := range pairs {
		if currency != "" && p.FromCode != currency && p.ToCode != currency {
			continue
		}
		if base != "" && p.FromCode != base {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rate.GreaterThan(filtered[j].Rate)
	})
	if filter.Top > 0 && filter.Top < len(filtered) {
		filtered = filtered[:filter.Top]
	}

	lastRefresh, err := s.rateRepo.LastRefresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading cache refresh time: %v", apperrors.ErrPersistence, err)
	}

	return &portssvc.RateListing{Pairs: filtered, LastRefresh: lastRefresh}, nil
}

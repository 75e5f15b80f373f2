package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PgxRateRepository implements the rate cache repository using pgxpool.
// Each directional pair is its own row; refreshes upsert.
type PgxRateRepository struct {
	db *pgxpool.Pool
}

// NewRateRepository creates a new PgxRateRepository.
func NewRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{db: db}
}

// FindRatePair retrieves the stored rate for a directional pair.
func (r *PgxRateRepository) FindRatePair(ctx context.Context, fromCode, toCode string) (*domain.RatePair, error) {
	const query = `
		SELECT from_code, to_code, rate, updated_at, source
		FROM exchange_rates
		WHERE from_code = $1 AND to_code = $2
	`
	pair := &domain.RatePair{}
	err := r.db.QueryRow(ctx, query, fromCode, toCode).Scan(
		&pair.FromCode, &pair.ToCode, &pair.Rate, &pair.UpdatedAt, &pair.Source,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate pair %s", apperrors.ErrNotFound, domain.PairKey(fromCode, toCode))
		}
		return nil, fmt.Errorf("error finding rate pair: %w", err)
	}
	return pair, nil
}

// SaveRatePair upserts a refreshed pair, recording fetchedAt as the cache's
// refresh instant.
func (r *PgxRateRepository) SaveRatePair(ctx context.Context, pair domain.RatePair, fetchedAt time.Time) error {
	const query = `
		INSERT INTO exchange_rates (from_code, to_code, rate, updated_at, source, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (from_code, to_code) DO UPDATE
		SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at,
		    source = EXCLUDED.source, fetched_at = EXCLUDED.fetched_at
	`
	_, err := r.db.Exec(ctx, query,
		pair.FromCode, pair.ToCode, pair.Rate, pair.UpdatedAt, pair.Source, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving rate pair: %w", err)
	}
	return nil
}

// ListRatePairs returns every cached pair.
func (r *PgxRateRepository) ListRatePairs(ctx context.Context) ([]domain.RatePair, error) {
	const query = `
		SELECT from_code, to_code, rate, updated_at, source
		FROM exchange_rates
		ORDER BY from_code, to_code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing rate pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.RatePair
	for rows.Next() {
		var p domain.RatePair
		if err := rows.Scan(&p.FromCode, &p.ToCode, &p.Rate, &p.UpdatedAt, &p.Source); err != nil {
			return nil, fmt.Errorf("error scanning rate pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate pairs: %w", err)
	}
	return pairs, nil
}

// LastRefresh returns the most recent refresh instant, or the zero time when
// the cache is empty.
func (r *PgxRateRepository) LastRefresh(ctx context.Context) (time.Time, error) {
	const query = `SELECT MAX(fetched_at) FROM exchange_rates`
	var last *time.Time
	if err := r.db.QueryRow(ctx, query).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("error reading last refresh: %w", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

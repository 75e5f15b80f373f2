package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PgxPortfolioRepository implements the portfolio repository using pgxpool.
// A portfolio is one row in portfolios plus its wallet rows; saves commit
// the whole snapshot in a single transaction guarded by an optimistic
// version check.
type PgxPortfolioRepository struct {
	db *pgxpool.Pool
}

// NewPortfolioRepository creates a new PgxPortfolioRepository.
func NewPortfolioRepository(db *pgxpool.Pool) *PgxPortfolioRepository {
	return &PgxPortfolioRepository{db: db}
}

// FindByUserID retrieves a user's portfolio with all of its wallets.
func (r *PgxPortfolioRepository) FindByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	const portfolioQuery = `
		SELECT user_id, version, created_at, created_by, last_updated_at, last_updated_by
		FROM portfolios
		WHERE user_id = $1
	`
	p := &domain.Portfolio{Wallets: make(map[string]*domain.Wallet)}
	err := r.db.QueryRow(ctx, portfolioQuery, userID).Scan(
		&p.UserID, &p.Version,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: portfolio for user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("error finding portfolio: %w", err)
	}

	const walletQuery = `
		SELECT currency_code, balance
		FROM wallets
		WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, walletQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading wallets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		w := &domain.Wallet{}
		if err := rows.Scan(&w.CurrencyCode, &w.Balance); err != nil {
			return nil, fmt.Errorf("error scanning wallet: %w", err)
		}
		p.Wallets[w.CurrencyCode] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return p, nil
}

// SavePortfolio persists the whole snapshot in one transaction. A version
// mismatch on an existing portfolio yields apperrors.ErrConflict; the
// snapshot's version is bumped on success.
func (r *PgxPortfolioRepository) SavePortfolio(ctx context.Context, portfolio *domain.Portfolio) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting portfolio save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if portfolio.Version == 0 {
		const insertQuery = `
			INSERT INTO portfolios (user_id, version, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, 1, $2, $3, $4, $5)
		`
		_, err = tx.Exec(ctx, insertQuery,
			portfolio.UserID,
			portfolio.CreatedAt, portfolio.CreatedBy, portfolio.LastUpdatedAt, portfolio.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: portfolio for user %s", apperrors.ErrDuplicate, portfolio.UserID)
			}
			return fmt.Errorf("error inserting portfolio: %w", err)
		}
	} else {
		const updateQuery = `
			UPDATE portfolios
			SET version = version + 1, last_updated_at = NOW(), last_updated_by = $3
			WHERE user_id = $1 AND version = $2
		`
		tag, err := tx.Exec(ctx, updateQuery, portfolio.UserID, portfolio.Version, portfolio.UserID)
		if err != nil {
			return fmt.Errorf("error updating portfolio: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: portfolio for user %s changed since read", apperrors.ErrConflict, portfolio.UserID)
		}
	}

	const walletQuery = `
		INSERT INTO wallets (user_id, currency_code, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, currency_code) DO UPDATE SET balance = EXCLUDED.balance
	`
	for _, code := range portfolio.CurrencyCodes() {
		w := portfolio.Wallets[code]
		if _, err := tx.Exec(ctx, walletQuery, portfolio.UserID, w.CurrencyCode, w.Balance); err != nil {
			return fmt.Errorf("error saving wallet %s: %w", w.CurrencyCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing portfolio save: %w", err)
	}

	portfolio.Version++
	return nil
}

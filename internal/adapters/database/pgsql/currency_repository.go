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

// PgxCurrencyRepository implements the currency catalog repository using
// pgxpool.
type PgxCurrencyRepository struct {
	db *pgxpool.Pool
}

// NewCurrencyRepository creates a new PgxCurrencyRepository.
func NewCurrencyRepository(db *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{db: db}
}

// SaveCurrency persists a catalog entry.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	const query = `
		INSERT INTO currencies (
			currency_code, kind, symbol, name, issuing_country, algorithm, market_cap, tradable,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		currency.CurrencyCode, currency.Kind, currency.Symbol, currency.Name,
		currency.IssuingCountry, currency.Algorithm, currency.MarketCap, currency.Tradable,
		currency.CreatedAt, currency.CreatedBy, currency.LastUpdatedAt, currency.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, currency.CurrencyCode)
		}
		return fmt.Errorf("error inserting currency: %w", err)
	}
	return nil
}

// FindCurrencyByCode retrieves a catalog entry by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	const query = `
		SELECT currency_code, kind, symbol, name, issuing_country, algorithm, market_cap, tradable,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		WHERE currency_code = $1
	`
	c := &domain.Currency{}
	err := r.db.QueryRow(ctx, query, currencyCode).Scan(
		&c.CurrencyCode, &c.Kind, &c.Symbol, &c.Name,
		&c.IssuingCountry, &c.Algorithm, &c.MarketCap, &c.Tradable,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, currencyCode)
		}
		return nil, fmt.Errorf("error finding currency: %w", err)
	}
	return c, nil
}

// ListCurrencies retrieves the full catalog.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	const query = `
		SELECT currency_code, kind, symbol, name, issuing_country, algorithm, market_cap, tradable,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		ORDER BY currency_code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(
			&c.CurrencyCode, &c.Kind, &c.Symbol, &c.Name,
			&c.IssuingCountry, &c.Algorithm, &c.MarketCap, &c.Tradable,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}

package repositories

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// CurrencyRepository defines persistence operations for the currency catalog.
type CurrencyRepository interface {
	// SaveCurrency persists a catalog entry. Primarily for initial setup.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// FindCurrencyByCode retrieves a catalog entry by its normalized code.
	// Returns apperrors.ErrNotFound for unknown codes.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves the full catalog.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

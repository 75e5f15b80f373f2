package services

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
)

// CurrencyReaderSvc defines read operations for the currency catalog.
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ValidateTradable checks that the code names a known, tradable
	// currency. Returns apperrors.ErrCurrencyNotFound otherwise.
	ValidateTradable(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for the currency catalog.
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces.
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

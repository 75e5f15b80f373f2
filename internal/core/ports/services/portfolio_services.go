package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PortfolioSvcFacade exposes read-only portfolio views.
type PortfolioSvcFacade interface {
	// GetPortfolio returns the user's portfolio with all wallets.
	GetPortfolio(ctx context.Context, userID string) (*domain.Portfolio, error)

	// GetTotalValue converts every wallet balance into baseCurrency and sums
	// them. A wallet whose code has no available rate fails the whole
	// valuation with apperrors.ErrRateUnavailable; it is never silently
	// valued at zero. The returned total is unrounded.
	GetTotalValue(ctx context.Context, userID, baseCurrency string) (decimal.Decimal, error)
}

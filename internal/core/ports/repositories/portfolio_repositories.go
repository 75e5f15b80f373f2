package repositories

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// PortfolioReader defines read operations for portfolio data.
type PortfolioReader interface {
	// FindByUserID retrieves a user's portfolio with all of its wallets.
	// Returns apperrors.ErrNotFound when the user has no portfolio.
	FindByUserID(ctx context.Context, userID string) (*domain.Portfolio, error)
}

// PortfolioWriter defines write operations for portfolio data.
type PortfolioWriter interface {
	// SavePortfolio persists the whole portfolio snapshot in a single
	// transaction. The write is rejected with apperrors.ErrConflict when the
	// stored version no longer matches the snapshot's version.
	SavePortfolio(ctx context.Context, portfolio *domain.Portfolio) error
}

// PortfolioRepository combines portfolio read and write operations.
type PortfolioRepository interface {
	PortfolioReader
	PortfolioWriter
}

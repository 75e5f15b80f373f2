package repositories

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// UserRepository defines persistence operations for Users.
type UserRepository interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the
	// username is already taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by ID. Returns apperrors.ErrNotFound
	// when absent.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username. Returns
	// apperrors.ErrNotFound when absent.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

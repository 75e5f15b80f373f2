package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/utils"
)

// userService manages registration and credential checks. Registering a
// user also creates their portfolio, seeded with the configured starting
// USD balance.
type userService struct {
	BaseService
	userRepo      portsrepo.UserRepository
	portfolioRepo portsrepo.PortfolioRepository
	startingUSD   decimal.Decimal
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepository, portfolioRepo portsrepo.PortfolioRepository, startingUSD decimal.Decimal) portssvc.UserSvcFacade {
	return &userService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		startingUSD:   startingUSD,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()

	user := domain.User{
		UserID:       userID,
		Username:     req.Username,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, req.Username)
		}
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	portfolio := domain.NewPortfolio(userID, s.startingUSD)
	portfolio.AuditFields = user.AuditFields
	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("%w: creating portfolio for %s: %v", apperrors.ErrPersistence, userID, err)
	}

	return &user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user in service: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

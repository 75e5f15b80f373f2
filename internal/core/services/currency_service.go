package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
)

// currencyService implements the currency catalog on top of the currency
// repository.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepository
}

// NewCurrencyService creates a new currency catalog service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	now := time.Now()

	tradable := true
	if req.Tradable != nil {
		tradable = *req.Tradable
	}

	currency := domain.Currency{
		CurrencyCode:   domain.NormalizeCurrencyCode(req.CurrencyCode),
		Kind:           domain.CurrencyKind(req.Kind),
		Symbol:         req.Symbol,
		Name:           req.Name,
		IssuingCountry: req.IssuingCountry,
		Algorithm:      req.Algorithm,
		MarketCap:      req.MarketCap,
		Tradable:       tradable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to create currency")
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, domain.NormalizeCurrencyCode(currencyCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyNotFound, currencyCode)
		}
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

// ValidateTradable checks that the code names a known currency that may be
// traded.
func (s *currencyService) ValidateTradable(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, err
	}
	if !currency.Tradable {
		return nil, fmt.Errorf("%w: %s is not tradable", apperrors.ErrCurrencyNotFound, currency.CurrencyCode)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

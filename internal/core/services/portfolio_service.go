package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// portfolioService exposes read-only portfolio views, including valuation
// of all wallets in a chosen base currency.
type portfolioService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioRepository
	rateSvc       portssvc.RateSvcFacade
	recorder      portssvc.AuditRecorder
}

// PortfolioServiceOption configures optional dependencies of the portfolio
// service.
type PortfolioServiceOption func(*portfolioService)

// WithPortfolioAuditRecorder overrides the audit recorder.
func WithPortfolioAuditRecorder(recorder portssvc.AuditRecorder) PortfolioServiceOption {
	return func(s *portfolioService) {
		s.recorder = recorder
	}
}

// NewPortfolioService creates a new portfolio view service.
func NewPortfolioService(portfolioRepo portsrepo.PortfolioRepository, rateSvc portssvc.RateSvcFacade, opts ...PortfolioServiceOption) portssvc.PortfolioSvcFacade {
	s := &portfolioService{
		portfolioRepo: portfolioRepo,
		rateSvc:       rateSvc,
		recorder:      NewSlogAuditRecorder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *portfolioService) GetPortfolio(ctx context.Context, userID string) (*domain.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio for %s: %w", userID, err)
	}
	return portfolio, nil
}

// GetTotalValue converts every wallet balance into baseCurrency and sums
// them. A missing rate fails the whole valuation; accumulation stays
// unrounded, display rounding happens in the DTO layer.
func (s *portfolioService) GetTotalValue(ctx context.Context, userID, baseCurrency string) (decimal.Decimal, error) {
	baseCurrency = domain.NormalizeCurrencyCode(baseCurrency)
	if baseCurrency == "" {
		baseCurrency = domain.SettlementCurrency
	}

	entry := portssvc.AuditEntry{
		Action:       "SHOW_PORTFOLIO",
		UserID:       userID,
		BaseCurrency: baseCurrency,
	}

	total, err := s.totalValue(ctx, userID, baseCurrency)
	if err := recordOutcome(ctx, s.recorder, entry, err); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *portfolioService) totalValue(ctx context.Context, userID, baseCurrency string) (decimal.Decimal, error) {
	portfolio, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load portfolio for %s: %w", userID, err)
	}

	total := decimal.Zero
	for _, code := range portfolio.CurrencyCodes() {
		wallet := portfolio.Wallets[code]
		if code == baseCurrency {
			total = total.Add(wallet.Balance)
			continue
		}
		pair, err := s.rateSvc.GetRate(ctx, code, baseCurrency)
		if err != nil {
			// Never silently value a wallet at zero.
			return decimal.Zero, err
		}
		total = total.Add(wallet.Balance.Mul(pair.Rate))
	}
	return total, nil
}

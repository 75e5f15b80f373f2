package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// tradingService converts between currencies against wallet balances. Every
// conversion routes through the USD settlement wallet: buy debits USD and
// credits the target wallet, sell does the reverse. Both mutations of an
// operation are applied to one loaded portfolio snapshot and committed with
// a single repository save; a per-user lock serializes mutating calls.
type tradingService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioRepository
	currencySvc   portssvc.CurrencySvcFacade
	rateSvc       portssvc.RateSvcFacade
	recorder      portssvc.AuditRecorder

	locksMu   sync.Mutex
	userLocks map[string]*sync.Mutex
}

// TradingServiceOption configures optional dependencies of the trading
// service.
type TradingServiceOption func(*tradingService)

// WithTradingAuditRecorder overrides the audit recorder.
func WithTradingAuditRecorder(recorder portssvc.AuditRecorder) TradingServiceOption {
	return func(s *tradingService) {
		s.recorder = recorder
	}
}

// NewTradingService creates a new trading service.
func NewTradingService(
	portfolioRepo portsrepo.PortfolioRepository,
	currencySvc portssvc.CurrencySvcFacade,
	rateSvc portssvc.RateSvcFacade,
	opts ...TradingServiceOption,
) portssvc.TradingSvcFacade {
	s := &tradingService{
		portfolioRepo: portfolioRepo,
		currencySvc:   currencySvc,
		rateSvc:       rateSvc,
		recorder:      NewSlogAuditRecorder(),
		userLocks:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockUser serializes mutating operations for one user. Locks are created
// on demand and kept for the process lifetime.
func (s *tradingService) lockUser(userID string) func() {
	s.locksMu.Lock()
	mu, ok := s.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.userLocks[userID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func (s *tradingService) Buy(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeResult, error) {
	return s.trade(ctx, domain.ActionBuy, userID, currencyCode, amount)
}

func (s *tradingService) Sell(ctx context.Context, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeResult, error) {
	return s.trade(ctx, domain.ActionSell, userID, currencyCode, amount)
}

// trade runs the shared buy/sell state machine: validate amount, validate
// currency, resolve the currency→USD rate, then mutate and commit the
// portfolio snapshot. The audit recorder sees every call, success or not,
// and the error is always returned to the caller afterwards.
func (s *tradingService) trade(ctx context.Context, action, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeResult, error) {
	currencyCode = domain.NormalizeCurrencyCode(currencyCode)
	entry := portssvc.AuditEntry{
		Action:       action,
		UserID:       userID,
		CurrencyCode: currencyCode,
		Amount:       amount,
		BaseCurrency: domain.SettlementCurrency,
	}

	result, err := s.executeTrade(ctx, action, userID, currencyCode, amount)
	if result != nil {
		entry.Rate = result.Rate
	}
	if err := recordOutcome(ctx, s.recorder, entry, err); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *tradingService) executeTrade(ctx context.Context, action, userID, currencyCode string, amount decimal.Decimal) (*domain.TradeResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}

	if currencyCode == domain.SettlementCurrency {
		return nil, fmt.Errorf("%w: %s is the settlement currency; sell another currency to obtain it",
			apperrors.ErrInvalidOperation, domain.SettlementCurrency)
	}
	if _, err := s.currencySvc.ValidateTradable(ctx, currencyCode); err != nil {
		return nil, err
	}

	// Rate is always the USD value of one unit of the traded currency.
	pair, err := s.rateSvc.GetRate(ctx, currencyCode, domain.SettlementCurrency)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	portfolio, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio for %s: %w", userID, err)
	}

	usdAmount := amount.Mul(pair.Rate)
	usdWallet := portfolio.EnsureWallet(domain.SettlementCurrency)

	var usdDelta decimal.Decimal
	switch action {
	case domain.ActionBuy:
		if err := usdWallet.Withdraw(usdAmount); err != nil {
			return nil, err
		}
		if err := portfolio.EnsureWallet(currencyCode).Deposit(amount); err != nil {
			return nil, err
		}
		usdDelta = usdAmount.Neg()
	case domain.ActionSell:
		wallet, ok := portfolio.Wallet(currencyCode)
		if !ok {
			// Absent wallet behaves as a zero balance.
			return nil, &apperrors.InsufficientFundsError{
				Available:    decimal.Zero,
				Requested:    amount,
				CurrencyCode: currencyCode,
			}
		}
		if err := wallet.Withdraw(amount); err != nil {
			return nil, err
		}
		if err := usdWallet.Deposit(usdAmount); err != nil {
			return nil, err
		}
		usdDelta = usdAmount
	default:
		return nil, fmt.Errorf("%w: unknown trade action %q", apperrors.ErrInvalidOperation, action)
	}

	// Single persisted write: both wallet mutations commit together or not
	// at all.
	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: saving portfolio for %s: %v", apperrors.ErrPersistence, userID, err)
	}

	s.LogInfo(ctx, "Trade committed",
		slog.String("action", action),
		slog.String("currency", currencyCode),
		slog.String("amount", amount.String()),
		slog.String("rate", pair.Rate.String()),
		slog.String("usd_delta", usdDelta.String()),
	)

	return &domain.TradeResult{
		Action:       action,
		UserID:       userID,
		CurrencyCode: currencyCode,
		Amount:       amount,
		Rate:         pair.Rate,
		USDDelta:     usdDelta,
		Portfolio:    portfolio,
	}, nil
}

// Deposit credits the USD settlement wallet directly.
func (s *tradingService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TradeResult, error) {
	entry := portssvc.AuditEntry{
		Action:       domain.ActionDeposit,
		UserID:       userID,
		CurrencyCode: domain.SettlementCurrency,
		Amount:       amount,
		Rate:         decimal.NewFromInt(1),
		BaseCurrency: domain.SettlementCurrency,
	}

	result, err := s.executeDeposit(ctx, userID, amount)
	if err := recordOutcome(ctx, s.recorder, entry, err); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *tradingService) executeDeposit(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TradeResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}

	unlock := s.lockUser(userID)
	defer unlock()

	portfolio, err := s.portfolioRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio for %s: %w", userID, err)
	}

	if err := portfolio.EnsureWallet(domain.SettlementCurrency).Deposit(amount); err != nil {
		return nil, err
	}
	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: saving portfolio for %s: %v", apperrors.ErrPersistence, userID, err)
	}

	return &domain.TradeResult{
		Action:       domain.ActionDeposit,
		UserID:       userID,
		CurrencyCode: domain.SettlementCurrency,
		Amount:       amount,
		Rate:         decimal.NewFromInt(1),
		USDDelta:     amount,
		Portfolio:    portfolio,
	}, nil
}

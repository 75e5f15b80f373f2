package services

import (
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, source portssvc.RateSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Rate = NewRateService(repos.RateRepo, source, cfg.RatesTTL, cfg.RateFetchTimeout)
	container.Trading = NewTradingService(repos.PortfolioRepo, container.Currency, container.Rate)
	container.Portfolio = NewPortfolioService(repos.PortfolioRepo, container.Rate)
	container.User = NewUserService(repos.UserRepo, repos.PortfolioRepo, cfg.StartingUSDBalance)
	container.Token = NewTokenService(cfg)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.CurrencySvcFacade  = (*currencyService)(nil)
	_ portssvc.RateSvcFacade      = (*rateService)(nil)
	_ portssvc.TradingSvcFacade   = (*tradingService)(nil)
	_ portssvc.PortfolioSvcFacade = (*portfolioService)(nil)
	_ portssvc.UserSvcFacade      = (*userService)(nil)
	_ portssvc.TokenSvcFacade     = (*tokenService)(nil)
)

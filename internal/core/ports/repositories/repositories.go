package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container at startup.
type RepositoryProvider struct {
	UserRepo      UserRepository
	CurrencyRepo  CurrencyRepository
	PortfolioRepo PortfolioRepository
	RateRepo      RateRepository
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is constructed once at process
// start and passed by injection to the services that consume it.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RatesTTL is the maximum age a cached exchange rate may have before it
	// must be refreshed.
	RatesTTL time.Duration
	// RateFetchTimeout bounds a single refresh call to the external source.
	RateFetchTimeout time.Duration
	// RateSourceURL is the base URL of the external rate source. Empty means
	// the built-in static source is used.
	RateSourceURL string

	// StartingUSDBalance seeds the USD wallet of newly registered users.
	StartingUSDBalance decimal.Decimal

	// AuthRateLimit is the limiter format for auth endpoints, e.g. "10-M".
	AuthRateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "valutatrade-hub")
	viper.SetDefault("RATES_TTL", "600s")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "5s")
	viper.SetDefault("RATE_SOURCE_URL", "")
	viper.SetDefault("STARTING_USD_BALANCE", "1000")
	viper.SetDefault("AUTH_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION. Defaulting to %s.\n", jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	ratesTTL, err := time.ParseDuration(viper.GetString("RATES_TTL"))
	if err != nil || ratesTTL <= 0 {
		ratesTTL = 600 * time.Second
		log.Printf("Warning: Invalid RATES_TTL. Defaulting to %s.\n", ratesTTL)
	}
	cfg.RatesTTL = ratesTTL

	fetchTimeout, err := time.ParseDuration(viper.GetString("RATE_FETCH_TIMEOUT"))
	if err != nil || fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
		log.Printf("Warning: Invalid RATE_FETCH_TIMEOUT. Defaulting to %s.\n", fetchTimeout)
	}
	cfg.RateFetchTimeout = fetchTimeout

	cfg.RateSourceURL = viper.GetString("RATE_SOURCE_URL")

	startingBalance, err := decimal.NewFromString(viper.GetString("STARTING_USD_BALANCE"))
	if err != nil || startingBalance.IsNegative() {
		return nil, fmt.Errorf("invalid STARTING_USD_BALANCE: %q", viper.GetString("STARTING_USD_BALANCE"))
	}
	cfg.StartingUSDBalance = startingBalance

	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")

	return cfg, nil
}

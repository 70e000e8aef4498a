package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration. It is built once at startup
// and passed by reference into each adapter constructor; nothing reads the
// environment after Load returns.
type Config struct {
	// External service configurations
	Alpaca AlpacaConfig
	Lithic LithicConfig
	Stripe StripeConfig

	// Watchlist configuration
	Watchlist WatchlistConfig

	// Upstream call policy
	Upstream UpstreamConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Development reveals raw upstream error text to clients
	Development bool
}

// AlpacaConfig holds Alpaca Broker and market-data API configuration.
type AlpacaConfig struct {
	APIKey         string
	APISecret      string
	BrokerBaseURL  string
	TradingBaseURL string
	DataBaseURL    string
	// Placeholder ACH relationship used when a transfer carries no bank_id.
	// Stands in for a real bank-linking flow.
	DefaultBankRelationshipID string
}

// LithicConfig holds card-issuing API configuration. An empty APIKey is
// valid: card provisioning then degrades to mock records.
type LithicConfig struct {
	APIKey  string
	BaseURL string
}

// StripeConfig holds payment API configuration.
type StripeConfig struct {
	SecretKey string
}

// WatchlistConfig holds the fixed symbol set served by the watchlist
// endpoint.
type WatchlistConfig struct {
	Symbols []string
}

// UpstreamConfig holds the shared retry/rate-limit policy applied to every
// provider call.
type UpstreamConfig struct {
	TimeoutSeconds int
	MaxRetries     int
	// Requests per second allowed against each provider before calls queue.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port               string
	CORSAllowedOrigins string
	TimeoutSeconds     int
}

// DefaultWatchlist is the reference five-symbol set.
var DefaultWatchlist = []string{"AAPL", "TSLA", "NVDA", "MSFT", "AMZN"}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Alpaca: AlpacaConfig{
			APIKey:                    os.Getenv("ALPACA_API_KEY"),
			APISecret:                 os.Getenv("ALPACA_SECRET_KEY"),
			BrokerBaseURL:             getEnvString("ALPACA_BASE_URL", "https://broker-api.sandbox.alpaca.markets"),
			TradingBaseURL:            getEnvString("ALPACA_TRADING_BASE_URL", "https://paper-api.alpaca.markets"),
			DataBaseURL:               getEnvString("ALPACA_DATA_BASE_URL", "https://data.alpaca.markets"),
			DefaultBankRelationshipID: getEnvString("ALPACA_DEFAULT_BANK_RELATIONSHIP_ID", "mock_bank_relationship_id"),
		},
		Lithic: LithicConfig{
			APIKey:  os.Getenv("LITHIC_API_KEY"),
			BaseURL: getEnvString("LITHIC_BASE_URL", "https://sandbox.lithic.com"),
		},
		Stripe: StripeConfig{
			SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		},
		Watchlist: WatchlistConfig{
			Symbols: getEnvList("WATCHLIST_SYMBOLS", DefaultWatchlist),
		},
		Upstream: UpstreamConfig{
			TimeoutSeconds:     getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),
			MaxRetries:         getEnvInt("UPSTREAM_MAX_RETRIES", 3),
			RateLimitPerSecond: getEnvFloat("UPSTREAM_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvInt("UPSTREAM_RATE_LIMIT_BURST", 20),
		},
		HTTP: HTTPConfig{
			Port:               getEnvString("PORT", "3001"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			TimeoutSeconds:     getEnvInt("HTTP_TIMEOUT_SECONDS", 60),
		},
		Development: getEnvString("APP_ENV", "development") == "development",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Watchlist.Symbols) == 0 {
		return fmt.Errorf("WATCHLIST_SYMBOLS must contain at least one symbol")
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive, got %d", c.Upstream.TimeoutSeconds)
	}
	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("UPSTREAM_MAX_RETRIES must not be negative, got %d", c.Upstream.MaxRetries)
	}
	if c.Upstream.RateLimitPerSecond <= 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT_PER_SECOND must be positive, got %.2f", c.Upstream.RateLimitPerSecond)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	return nil
}

// HasAlpaca returns true if broker API credentials are available.
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

// HasLithic returns true if card-issuing configuration is available.
func (c *Config) HasLithic() bool {
	return c.Lithic.APIKey != ""
}

// HasStripe returns true if payment configuration is available.
func (c *Config) HasStripe() bool {
	return c.Stripe.SecretKey != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(strings.ToUpper(s)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// NewTestConfig creates a Config with default values for testing.
func NewTestConfig() *Config {
	return &Config{
		Alpaca: AlpacaConfig{
			APIKey:                    "",
			APISecret:                 "",
			BrokerBaseURL:             "https://broker-api.sandbox.alpaca.markets",
			TradingBaseURL:            "https://paper-api.alpaca.markets",
			DataBaseURL:               "https://data.alpaca.markets",
			DefaultBankRelationshipID: "mock_bank_relationship_id",
		},
		Lithic: LithicConfig{
			APIKey:  "",
			BaseURL: "https://sandbox.lithic.com",
		},
		Stripe: StripeConfig{
			SecretKey: "",
		},
		Watchlist: WatchlistConfig{
			Symbols: append([]string(nil), DefaultWatchlist...),
		},
		Upstream: UpstreamConfig{
			TimeoutSeconds:     30,
			MaxRetries:         3,
			RateLimitPerSecond: 10,
			RateLimitBurst:     20,
		},
		HTTP: HTTPConfig{
			Port:               "3001",
			CORSAllowedOrigins: "*",
			TimeoutSeconds:     60,
		},
		Development: true,
	}
}

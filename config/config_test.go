package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Alpaca.BrokerBaseURL != "https://broker-api.sandbox.alpaca.markets" {
		t.Errorf("BrokerBaseURL = %q, want sandbox default", cfg.Alpaca.BrokerBaseURL)
	}
	if cfg.Alpaca.DefaultBankRelationshipID != "mock_bank_relationship_id" {
		t.Errorf("DefaultBankRelationshipID = %q", cfg.Alpaca.DefaultBankRelationshipID)
	}
	if cfg.HTTP.Port != "3001" {
		t.Errorf("Port = %q, want 3001", cfg.HTTP.Port)
	}
	if !reflect.DeepEqual(cfg.Watchlist.Symbols, DefaultWatchlist) {
		t.Errorf("Symbols = %v, want %v", cfg.Watchlist.Symbols, DefaultWatchlist)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WATCHLIST_SYMBOLS", "goog, nflx")
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPSTREAM_MAX_RETRIES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.HTTP.Port)
	}
	if want := []string{"GOOG", "NFLX"}; !reflect.DeepEqual(cfg.Watchlist.Symbols, want) {
		t.Errorf("Symbols = %v, want %v", cfg.Watchlist.Symbols, want)
	}
	if cfg.Development {
		t.Error("APP_ENV=production should disable development mode")
	}
	if cfg.Upstream.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.Upstream.MaxRetries)
	}
}

func TestValidate(t *testing.T) {
	cfg := NewTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config should validate, got %v", err)
	}

	cfg.Watchlist.Symbols = nil
	if err := cfg.Validate(); err == nil {
		t.Error("empty watchlist should fail validation")
	}

	cfg = NewTestConfig()
	cfg.Upstream.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero timeout should fail validation")
	}
}

func TestHasProviders(t *testing.T) {
	cfg := NewTestConfig()

	if cfg.HasAlpaca() || cfg.HasLithic() || cfg.HasStripe() {
		t.Error("test config should report no providers configured")
	}

	cfg.Alpaca.APIKey = "key"
	cfg.Alpaca.APISecret = "secret"
	cfg.Lithic.APIKey = "lkey"
	cfg.Stripe.SecretKey = "sk_test"

	if !cfg.HasAlpaca() || !cfg.HasLithic() || !cfg.HasStripe() {
		t.Error("all providers should report configured")
	}
}

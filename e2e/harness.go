// Package e2e provides end-to-end testing infrastructure for matty-api.
package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"matty-api/config"
	"matty-api/e2e/mocks"
	"matty-api/internal/api"
	"matty-api/internal/app"
	"matty-api/services"
)

// TestHarness wires the real service stack, every upstream pointed at one
// mock server, behind the real router. No stubs: requests travel the full
// rate-limit, circuit-breaker, and retry path.
type TestHarness struct {
	t          *testing.T
	ctx        context.Context
	cancel     context.CancelFunc
	mockServer *mocks.MockServer
	app        *app.App
	router     http.Handler
	config     *config.Config
}

// NewTestHarness creates a new test harness with all dependencies initialized.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	h := &TestHarness{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
	}
	h.setup()
	return h
}

func (h *TestHarness) setup() {
	// Each harness gets its own breaker registry so one scenario's injected
	// failures cannot trip another's circuits.
	services.SetGlobalRegistry(services.NewCircuitBreakerRegistry(services.DefaultCircuitBreakerConfig))

	h.mockServer = mocks.NewMockServer()
	h.config = h.createTestConfig()

	limiter := services.NewProviderLimiter(
		h.config.Upstream.RateLimitPerSecond, h.config.Upstream.RateLimitBurst)

	broker := services.NewBrokerService(h.config, limiter)
	marketData := services.NewMarketDataService(h.config, limiter)
	cards := services.NewLithicService(h.config, limiter)
	payments := services.NewStripeService(h.config, limiter)

	h.app = app.New(h.config, broker, marketData, cards, payments)
	h.router = api.NewRouter(api.NewHandler(h.app, h.config), h.config)
}

// Teardown cleans up all test resources.
func (h *TestHarness) Teardown() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.mockServer != nil {
		h.mockServer.Close()
	}
}

// Context returns the test context.
func (h *TestHarness) Context() context.Context {
	return h.ctx
}

// MockServer returns the mock upstream for configuring responses.
func (h *TestHarness) MockServer() *mocks.MockServer {
	return h.mockServer
}

// App returns the application instance.
func (h *TestHarness) App() *app.App {
	return h.app
}

// Router returns the HTTP router for making requests.
func (h *TestHarness) Router() http.Handler {
	return h.router
}

// Config returns the test configuration.
func (h *TestHarness) Config() *config.Config {
	return h.config
}

// DoRequest performs an HTTP request against the router and returns the
// recorded response.
func (h *TestHarness) DoRequest(method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *TestHarness) createTestConfig() *config.Config {
	mockURL := h.mockServer.URL()

	cfg := config.NewTestConfig()
	cfg.Alpaca.APIKey = "test-key"
	cfg.Alpaca.APISecret = "test-secret"
	cfg.Alpaca.BrokerBaseURL = mockURL
	cfg.Alpaca.TradingBaseURL = mockURL
	cfg.Alpaca.DataBaseURL = mockURL
	cfg.Lithic.APIKey = "test-lithic-key"
	cfg.Lithic.BaseURL = mockURL

	// Keep failure scenarios fast and deterministic.
	cfg.Upstream.MaxRetries = 0
	cfg.Upstream.RateLimitPerSecond = 1000
	cfg.Upstream.RateLimitBurst = 1000
	cfg.Development = false

	return cfg
}

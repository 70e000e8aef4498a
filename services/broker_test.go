package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"matty-api/config"
	"matty-api/models"
)

func newTestBroker(t *testing.T, upstream *httptest.Server) *BrokerService {
	t.Helper()

	// Fresh breaker state per test so failures don't leak across tests
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	cfg := config.NewTestConfig()
	cfg.Alpaca.APIKey = "test-key"
	cfg.Alpaca.APISecret = "test-secret"
	cfg.Alpaca.BrokerBaseURL = upstream.URL
	cfg.Upstream.MaxRetries = 0

	return NewBrokerService(cfg, NewProviderLimiter(1000, 1000))
}

func TestBrokerServiceBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		json.NewEncoder(w).Encode(models.BrokerAccount{ID: "acct-1"})
	}))
	defer upstream.Close()

	svc := newTestBroker(t, upstream)
	if _, err := svc.GetAccount(context.Background(), "acct-1"); err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}

	if gotUser != "test-key" || gotPass != "test-secret" {
		t.Errorf("basic auth = %q/%q, want test-key/test-secret", gotUser, gotPass)
	}
}

func TestBrokerServiceCreateOrder(t *testing.T) {
	var gotPath string
	var gotPayload models.OrderPayload
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(models.Order{ID: "ord-1", Symbol: gotPayload.Symbol, Status: "accepted"})
	}))
	defer upstream.Close()

	svc := newTestBroker(t, upstream)
	payload := models.OrderPayload{Symbol: "AAPL", Qty: "3", Side: "buy", Type: "market", TimeInForce: "day"}

	order, err := svc.CreateOrder(context.Background(), "acct-1", payload)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if gotPath != "/v1/accounts/acct-1/orders" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPayload != payload {
		t.Errorf("upstream payload = %+v, want %+v", gotPayload, payload)
	}
	if order.ID != "ord-1" {
		t.Errorf("order ID = %q, want ord-1", order.ID)
	}
}

func TestBrokerServiceUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"insufficient buying power"}`))
	}))
	defer upstream.Close()

	svc := newTestBroker(t, upstream)
	_, err := svc.CreateOrder(context.Background(), "acct-1", models.OrderPayload{Symbol: "AAPL", Qty: "1000000", Side: "buy"})
	if err == nil {
		t.Fatal("expected error from 422 response")
	}

	uerr, ok := models.AsUpstreamError(err)
	if !ok {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if uerr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", uerr.StatusCode)
	}
	if uerr.Body == "" {
		t.Error("expected upstream body to be captured")
	}
	if uerr.Transient() {
		t.Error("a 422 rejection must not be transient")
	}
}

func TestBrokerServiceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(models.BrokerAccount{ID: "acct-1"})
	}))
	defer upstream.Close()

	svc := newTestBroker(t, upstream)
	svc.retry = RetryConfig{MaxRetries: 3, InitialBackoff: 1, MaxBackoff: 1}

	account, err := svc.GetAccount(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if account.ID != "acct-1" {
		t.Errorf("account ID = %q", account.ID)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}
}

func TestBrokerServiceDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"account not found"}`))
	}))
	defer upstream.Close()

	svc := newTestBroker(t, upstream)
	svc.retry = RetryConfig{MaxRetries: 3, InitialBackoff: 1, MaxBackoff: 1}

	if _, err := svc.GetAccount(context.Background(), "missing"); err == nil {
		t.Fatal("expected error from 404 response")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want exactly 1 for a 4xx", got)
	}
}

func TestBrokerServiceSearchAssetsDefaults(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]models.Asset{{Symbol: "AAPL"}})
	}))
	defer upstream.Close()

	svc := newTestBroker(t, upstream)
	assets, err := svc.SearchAssets(context.Background(), AssetQuery{Search: "apple"})
	if err != nil {
		t.Fatalf("SearchAssets() error = %v", err)
	}

	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(assets))
	}
	for _, want := range []string{"status=active", "asset_class=us_equity", "search=apple"} {
		if !containsParam(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func containsParam(query, param string) bool {
	for _, part := range strings.Split(query, "&") {
		if part == param {
			return true
		}
	}
	return false
}

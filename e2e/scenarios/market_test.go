package scenarios

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"

	"matty-api/e2e"
	"matty-api/models"
)

func TestQuoteEndpoint(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodGet, "/api/market/quotes/aapl", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var quote models.MarketQuote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if quote.Symbol != "AAPL" {
		t.Errorf("symbol = %q", quote.Symbol)
	}
	if quote.AskPrice != 210 || quote.BidPrice != 209.95 {
		t.Errorf("quote = %+v", quote)
	}
}

func TestWatchlistComputesDayChange(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodGet, "/api/market/watchlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var entries map[string]models.WatchlistEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("watchlist body must be a symbol-keyed object: %v", err)
	}
	if len(entries) != len(h.Config().Watchlist.Symbols) {
		t.Fatalf("entries = %d, want %d", len(entries), len(h.Config().Watchlist.Symbols))
	}

	// Ask 210 against a 200 previous close from the bar history.
	for _, symbol := range h.Config().Watchlist.Symbols {
		entry, ok := entries[symbol]
		if !ok {
			t.Errorf("%s missing from watchlist body", symbol)
			continue
		}
		if entry.CurrentPrice != 210 {
			t.Errorf("%s price = %v", symbol, entry.CurrentPrice)
		}
		if math.Abs(entry.Change-10) > 1e-9 || math.Abs(entry.ChangePercent-5) > 1e-9 {
			t.Errorf("%s change = %v (%v%%)", symbol, entry.Change, entry.ChangePercent)
		}
	}
}

func TestWatchlistSynthesizesEntriesDuringDataOutage(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	h.MockServer().SetDataError(errBrokerDown)

	w := h.DoRequest(http.MethodGet, "/api/market/watchlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var entries map[string]models.WatchlistEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("watchlist body must be a symbol-keyed object: %v", err)
	}
	if len(entries) != len(h.Config().Watchlist.Symbols) {
		t.Fatalf("entries = %d, want %d", len(entries), len(h.Config().Watchlist.Symbols))
	}
	for symbol, entry := range entries {
		if entry.CurrentPrice < 100 || entry.CurrentPrice >= 300 {
			t.Errorf("%s synthetic price out of range: %v", symbol, entry.CurrentPrice)
		}
	}
}

func TestMarketStatus(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodGet, "/api/market/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var status models.MarketStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !status.IsOpen {
		t.Error("expected open market from defaults")
	}
}

func TestAssetSearch(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodGet, "/api/assets?search=apple", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var assets []models.Asset
	if err := json.Unmarshal(w.Body.Bytes(), &assets); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("assets = %d", len(assets))
	}

	// The proxy must forward the search and default filters upstream.
	found := false
	for _, entry := range h.MockServer().GetRequestLog() {
		if entry.Path == "/v1/assets" {
			found = true
		}
	}
	if !found {
		t.Error("asset search never reached the broker")
	}
}

// Package mocks provides HTTP mock servers for the upstream provider APIs
// used in end-to-end tests.
package mocks

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockServer impersonates every upstream provider behind one listener: the
// broker API, the market-data API, and the card issuer. Responses are
// configurable per provider, and every incoming request is logged for
// assertions.
type MockServer struct {
	mu     sync.RWMutex
	server *httptest.Server

	// Response configurations
	account    BrokerAccountWire
	positions  []json.RawMessage
	orders     []json.RawMessage
	activities []json.RawMessage
	assets     []json.RawMessage
	history    json.RawMessage
	quote      QuoteWire
	bars       []BarWire
	clock      ClockWire
	calendar   []CalendarDayWire
	card       CardWire

	// Error injection
	brokerError error
	dataError   error
	cardError   error

	// Request tracking for assertions
	requestLog []RequestLog
}

// RequestLog records one incoming request for test assertions.
type RequestLog struct {
	Method string
	Path   string
	Body   string
}

// NewHandler creates a mock upstream handler with default responses but no
// listener. Useful for serving the mocks from a standalone process.
func NewHandler() *MockServer {
	m := &MockServer{requestLog: make([]RequestLog, 0)}
	m.setDefaults()
	return m
}

// NewMockServer creates a mock upstream and starts a test listener for it.
func NewMockServer() *MockServer {
	m := NewHandler()
	m.server = httptest.NewServer(m)
	return m
}

// URL returns the mock server's base URL.
func (m *MockServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockServer) Close() {
	if m.server != nil {
		m.server.Close()
	}
}

// ServeHTTP routes requests to the provider handler matching the path.
func (m *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := ""
	if r.Body != nil {
		raw, _ := io.ReadAll(io.LimitReader(r.Body, 64<<10))
		body = string(raw)
	}
	m.mu.Lock()
	m.requestLog = append(m.requestLog, RequestLog{
		Method: r.Method,
		Path:   r.URL.Path,
		Body:   body,
	})
	m.mu.Unlock()

	path := r.URL.Path

	switch {
	case path == "/v1/cards":
		m.handleCreateCard(w, r, body)
	case strings.Contains(path, "/quotes/latest"):
		m.handleLatestQuote(w, r)
	case strings.Contains(path, "/stocks/") && strings.HasSuffix(path, "/bars"):
		m.handleBars(w, r)
	case strings.HasSuffix(path, "/clock"):
		m.handleClock(w, r)
	case strings.HasSuffix(path, "/calendar"):
		m.handleCalendar(w, r)
	case strings.HasPrefix(path, "/v1/assets"):
		m.handleAssets(w, r)
	case strings.HasPrefix(path, "/v1/accounts"):
		m.handleBrokerAccounts(w, r, body)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GetRequestLog returns all logged requests for assertions.
func (m *MockServer) GetRequestLog() []RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RequestLog{}, m.requestLog...)
}

// ClearRequestLog clears the request log.
func (m *MockServer) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestLog = make([]RequestLog, 0)
}

// SetAccount configures the broker account response.
func (m *MockServer) SetAccount(account BrokerAccountWire) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = account
}

// SetQuote configures the latest-quote response used for every symbol.
func (m *MockServer) SetQuote(quote QuoteWire) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quote = quote
}

// SetBars configures the daily-bars response used for every symbol.
func (m *MockServer) SetBars(bars []BarWire) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars = bars
}

// SetClock configures the market clock response.
func (m *MockServer) SetClock(clock ClockWire) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// SetCard configures the issued-card response.
func (m *MockServer) SetCard(card CardWire) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.card = card
}

// SetBrokerError makes every broker-API route fail with a 500.
func (m *MockServer) SetBrokerError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brokerError = err
}

// SetDataError makes every market-data route fail with a 500.
func (m *MockServer) SetDataError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataError = err
}

// SetCardError makes the card issuer fail with a 500.
func (m *MockServer) SetCardError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cardError = err
}

func (m *MockServer) setDefaults() {
	now := time.Now().UTC()

	m.account = BrokerAccountWire{
		ID:                       "mock-account-id",
		AccountNumber:            "MATTY000001",
		Status:                   "SUBMITTED",
		Currency:                 "USD",
		Cash:                     "1000.00",
		BuyingPower:              "4000.00",
		RegTBuyingPower:          "2000.00",
		DaytradingBuyingPower:    "4000.00",
		NonMarginableBuyingPower: "1000.00",
		Equity:                   "1000.00",
		LastEquity:               "1000.00",
		CreatedAt:                now.Format(time.RFC3339),
	}

	m.positions = []json.RawMessage{}
	m.orders = []json.RawMessage{}
	m.activities = []json.RawMessage{
		json.RawMessage(`{"id":"mock-activity-1","activity_type":"FILL","symbol":"AAPL","qty":"2","price":"210.00","side":"buy","net_amount":"-420.00"}`),
	}
	m.assets = []json.RawMessage{
		json.RawMessage(`{"id":"asset-aapl","class":"us_equity","exchange":"NASDAQ","symbol":"AAPL","name":"Apple Inc. Common Stock","status":"active","tradable":true,"fractionable":true}`),
		json.RawMessage(`{"id":"asset-tsla","class":"us_equity","exchange":"NASDAQ","symbol":"TSLA","name":"Tesla, Inc. Common Stock","status":"active","tradable":true,"fractionable":true}`),
	}
	m.history = json.RawMessage(`{"timestamp":[1704067200,1704153600],"equity":[1000,1010],"profit_loss":[0,10],"profit_loss_pct":[0,0.01],"base_value":1000,"timeframe":"1D"}`)

	// Ask 210 against a 200 previous close: a 10-point, 5 percent day.
	m.quote = QuoteWire{
		Timestamp: now.Format(time.RFC3339Nano),
		BidPrice:  209.95,
		BidSize:   2,
		AskPrice:  210.00,
		AskSize:   3,
		Tape:      "C",
	}
	m.bars = []BarWire{
		{Timestamp: now.AddDate(0, 0, -2).Format(time.RFC3339), Open: 199, High: 202, Low: 198, Close: 200, Volume: 1000000, VWAP: 200},
		{Timestamp: now.AddDate(0, 0, -1).Format(time.RFC3339), Open: 201, High: 209, Low: 200, Close: 208, Volume: 1200000, VWAP: 205},
	}

	m.clock = ClockWire{
		Timestamp: now.Format(time.RFC3339),
		IsOpen:    true,
		NextOpen:  now.AddDate(0, 0, 1).Format(time.RFC3339),
		NextClose: now.Add(4 * time.Hour).Format(time.RFC3339),
	}
	m.calendar = []CalendarDayWire{
		{Date: now.Format("2006-01-02"), Open: "09:30", Close: "16:00"},
		{Date: now.AddDate(0, 0, 1).Format("2006-01-02"), Open: "09:30", Close: "16:00"},
	}

	m.card = CardWire{
		Token:      "lithic-card-token",
		PAN:        "4111111111111111",
		ExpMonth:   "06",
		ExpYear:    "29",
		CVV:        "456",
		Type:       "VIRTUAL",
		State:      "OPEN",
		SpendLimit: 10000,
		Created:    now.Format(time.RFC3339),
	}
}

func (m *MockServer) handleBrokerAccounts(w http.ResponseWriter, r *http.Request, body string) {
	m.mu.RLock()
	err := m.brokerError
	account := m.account
	positions := m.positions
	orders := m.orders
	activities := m.activities
	history := m.history
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/v1/accounts" && r.Method == http.MethodPost:
		writeJSON(w, account)
	case strings.HasSuffix(path, "/positions"):
		writeJSON(w, positions)
	case strings.HasSuffix(path, "/orders") && r.Method == http.MethodPost:
		m.handleCreateOrder(w, body)
	case strings.HasSuffix(path, "/orders"):
		writeJSON(w, orders)
	case strings.Contains(path, "/orders/") && r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(path, "/activities"):
		writeJSON(w, activities)
	case strings.HasSuffix(path, "/portfolio/history"):
		writeJSON(w, history)
	case strings.HasSuffix(path, "/transfers") && r.Method == http.MethodPost:
		m.handleCreateTransfer(w, body)
	default:
		writeJSON(w, account)
	}
}

// handleCreateOrder echoes the submitted payload back as an accepted order
// so tests can assert the normalized fields round-trip.
func (m *MockServer) handleCreateOrder(w http.ResponseWriter, body string) {
	var payload struct {
		Symbol      string `json:"symbol"`
		Qty         string `json:"qty"`
		Side        string `json:"side"`
		Type        string `json:"type"`
		TimeInForce string `json:"time_in_force"`
	}
	json.Unmarshal([]byte(body), &payload)

	writeJSON(w, map[string]any{
		"id":            "mock-order-id",
		"symbol":        payload.Symbol,
		"qty":           payload.Qty,
		"side":          payload.Side,
		"type":          payload.Type,
		"time_in_force": payload.TimeInForce,
		"status":        "accepted",
		"filled_qty":    "0",
		"submitted_at":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (m *MockServer) handleCreateTransfer(w http.ResponseWriter, body string) {
	var payload struct {
		TransferType   string `json:"transfer_type"`
		RelationshipID string `json:"relationship_id"`
		Amount         string `json:"amount"`
		Direction      string `json:"direction"`
	}
	json.Unmarshal([]byte(body), &payload)

	writeJSON(w, map[string]any{
		"id":              "mock-transfer-id",
		"relationship_id": payload.RelationshipID,
		"type":            payload.TransferType,
		"amount":          payload.Amount,
		"direction":       payload.Direction,
		"status":          "QUEUED",
		"created_at":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (m *MockServer) handleAssets(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	err := m.brokerError
	assets := m.assets
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Path == "/v1/assets" {
		writeJSON(w, assets)
		return
	}
	if len(assets) > 0 {
		writeJSON(w, assets[0])
		return
	}
	http.Error(w, "asset not found", http.StatusNotFound)
}

func (m *MockServer) handleLatestQuote(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	err := m.dataError
	quote := m.quote
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	quotes := make(map[string]QuoteWire)
	for _, symbol := range requestedSymbols(r) {
		quotes[symbol] = quote
	}
	writeJSON(w, map[string]any{
		"quotes": quotes,
	})
}

func (m *MockServer) handleBars(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	err := m.dataError
	bars := m.bars
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	barsBySymbol := make(map[string][]BarWire)
	for _, symbol := range requestedSymbols(r) {
		barsBySymbol[symbol] = bars
	}
	writeJSON(w, map[string]any{
		"bars":            barsBySymbol,
		"next_page_token": nil,
	})
}

func (m *MockServer) handleClock(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	err := m.dataError
	clock := m.clock
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, clock)
}

func (m *MockServer) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	err := m.dataError
	calendar := m.calendar
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, calendar)
}

func (m *MockServer) handleCreateCard(w http.ResponseWriter, _ *http.Request, body string) {
	m.mu.RLock()
	err := m.cardError
	card := m.card
	m.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Echo the funding account's spend limit when the request carries one.
	var payload struct {
		SpendLimit int64 `json:"spend_limit"`
	}
	json.Unmarshal([]byte(body), &payload)
	if payload.SpendLimit > 0 {
		card.SpendLimit = payload.SpendLimit
	}

	writeJSON(w, card)
}

// requestedSymbols extracts the symbols from a data-API request, which the
// SDK sends via the `symbols` query parameter on the multi-symbol endpoints,
// falling back to the /stocks/{symbol}/... path segment.
func requestedSymbols(r *http.Request) []string {
	if symbols := r.URL.Query().Get("symbols"); symbols != "" {
		return strings.Split(symbols, ",")
	}
	parts := strings.Split(r.URL.Path, "/")
	for i, p := range parts {
		if p == "stocks" && i+1 < len(parts) {
			return []string{parts[i+1]}
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

package scenarios

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"matty-api/e2e"
	"matty-api/models"
)

var (
	errCardIssuerDown = errors.New("card issuer unavailable")
	errBrokerDown     = errors.New("broker maintenance")
)

func TestTradeRoundTrip(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodPost, "/api/execute-trade",
		`{"accountId":"mock-account-id","symbol":"aapl","side":"BUY","qty":2}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.TradeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Order == nil || resp.Order.ID != "mock-order-id" {
		t.Fatalf("order = %+v", resp.Order)
	}
	if resp.Order.Symbol != "AAPL" || resp.Order.Side != "buy" {
		t.Errorf("normalization lost in flight: %+v", resp.Order)
	}
	if resp.Order.Type != "market" || resp.Order.TimeInForce != "day" {
		t.Errorf("defaults not applied: %+v", resp.Order)
	}
	if resp.Message != "BUY order for 2 shares of AAPL submitted successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestBalanceReadCoercesDecimals(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodGet, "/api/account/mock-account-id/balance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var balance models.Balance
	if err := json.Unmarshal(w.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if balance.Cash != 1000 || balance.BuyingPower != 4000 {
		t.Errorf("balance = %+v", balance)
	}
	if balance.AccountID != "mock-account-id" {
		t.Errorf("account id = %q", balance.AccountID)
	}
}

func TestTransferDefaultsBankRelationship(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodPost, "/api/transfer",
		`{"accountId":"mock-account-id","amount":250,"direction":"INCOMING"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.TransferResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Transfer == nil || resp.Transfer.RelationshipID != "mock_bank_relationship_id" {
		t.Errorf("transfer = %+v", resp.Transfer)
	}
	if resp.Transfer.Amount != "250" || resp.Transfer.Direction != "INCOMING" {
		t.Errorf("transfer = %+v", resp.Transfer)
	}
}

func TestBrokerOutageSurfacesAsServerError(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	h.MockServer().SetBrokerError(errBrokerDown)

	w := h.DoRequest(http.MethodGet, "/api/account/mock-account-id/positions", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// Production mode must not leak upstream error text.
	if body := w.Body.String(); len(body) > 0 && containsUpstreamDetail(body) {
		t.Errorf("upstream detail leaked: %s", body)
	}
}

func containsUpstreamDetail(body string) bool {
	var decoded struct {
		Message string `json:"message"`
	}
	json.Unmarshal([]byte(body), &decoded)
	return decoded.Message != ""
}

func TestCancelOrder(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodDelete, "/api/account/mock-account-id/orders/mock-order-id", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Order canceled successfully" {
		t.Errorf("response = %+v", resp)
	}
}

func TestAlgoSimulationIsLocal(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	h.MockServer().ClearRequestLog()

	w := h.DoRequest(http.MethodPost, "/api/simulate-algo-trading",
		`{"accountId":"mock-account-id","amount":400}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.AlgoSimulationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Activity) != 7 {
		t.Errorf("activity steps = %d, want 7", len(resp.Activity))
	}
	if resp.TotalProfit != "12.40" {
		t.Errorf("total profit = %q", resp.TotalProfit)
	}

	// The simulation is scripted; no upstream may be touched.
	if log := h.MockServer().GetRequestLog(); len(log) != 0 {
		t.Errorf("upstream calls during simulation: %+v", log)
	}
}

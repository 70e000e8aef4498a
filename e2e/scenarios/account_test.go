package scenarios

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"matty-api/e2e"
	"matty-api/models"
)

func TestAccountCreationIssuesCard(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodPost, "/api/create-alpaca-account",
		`{"firstName":"Jordan","lastName":"Rivera","email":"jordan@example.com","phone":"+15551234567"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.CreateAccountResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.Success {
		t.Error("expected success")
	}
	if resp.AlpacaAccount == nil || resp.AlpacaAccount.ID != "mock-account-id" {
		t.Errorf("account = %+v", resp.AlpacaAccount)
	}
	if resp.VirtualCard == nil || resp.VirtualCard.Token != "lithic-card-token" {
		t.Errorf("card = %+v", resp.VirtualCard)
	}
	if resp.VirtualCard.Funding.AccountToken != "mock-account-id" {
		t.Errorf("card funded from %q", resp.VirtualCard.Funding.AccountToken)
	}

	// The broker must have received a complete application, with the
	// requester's identity merged over the demo compliance defaults.
	var application models.AccountApplication
	for _, entry := range h.MockServer().GetRequestLog() {
		if entry.Method == http.MethodPost && entry.Path == "/v1/accounts" {
			if err := json.Unmarshal([]byte(entry.Body), &application); err != nil {
				t.Fatalf("decode application: %v", err)
			}
		}
	}
	if application.Identity.GivenName != "Jordan" || application.Identity.FamilyName != "Rivera" {
		t.Errorf("identity = %+v", application.Identity)
	}
	if application.Contact.EmailAddress != "jordan@example.com" {
		t.Errorf("contact = %+v", application.Contact)
	}
	if len(application.Agreements) != 3 {
		t.Errorf("agreements = %d, want 3", len(application.Agreements))
	}
}

func TestAccountCreationSurvivesCardIssuerOutage(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	h.MockServer().SetCardError(errCardIssuerDown)

	w := h.DoRequest(http.MethodPost, "/api/create-alpaca-account",
		`{"firstName":"Jordan","lastName":"Rivera","email":"jordan@example.com","phone":"+15551234567"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.CreateAccountResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VirtualCard == nil || !strings.HasPrefix(resp.VirtualCard.Token, "fallback_card_token_") {
		t.Errorf("card = %+v, want fallback token", resp.VirtualCard)
	}
}

func TestAccountCreationRejectsIncompleteBasics(t *testing.T) {
	h := e2e.NewTestHarness(t)
	defer h.Teardown()

	w := h.DoRequest(http.MethodPost, "/api/create-alpaca-account",
		`{"firstName":"Jordan"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body struct {
		Error    string   `json:"error"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "Missing required fields" {
		t.Errorf("error = %q", body.Error)
	}
	if len(body.Required) != 3 {
		t.Errorf("required = %v", body.Required)
	}

	// Nothing may reach the broker for an invalid request.
	for _, entry := range h.MockServer().GetRequestLog() {
		if entry.Path == "/v1/accounts" {
			t.Errorf("broker was called for an invalid request: %+v", entry)
		}
	}
}

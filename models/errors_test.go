package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamErrorTransient(t *testing.T) {
	tests := []struct {
		name string
		err  UpstreamError
		want bool
	}{
		{"network failure", UpstreamError{Provider: "alpaca_broker", Err: errors.New("dial tcp: timeout")}, true},
		{"server error", UpstreamError{Provider: "alpaca_broker", StatusCode: 503}, true},
		{"internal error", UpstreamError{Provider: "lithic", StatusCode: 500}, true},
		{"bad request", UpstreamError{Provider: "alpaca_broker", StatusCode: 400}, false},
		{"unauthorized", UpstreamError{Provider: "alpaca_broker", StatusCode: 401}, false},
		{"not found", UpstreamError{Provider: "alpaca_broker", StatusCode: 404}, false},
		{"conflict", UpstreamError{Provider: "alpaca_broker", StatusCode: 409}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Transient(); got != tt.want {
				t.Errorf("Transient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsUpstreamError(t *testing.T) {
	uerr := &UpstreamError{Provider: "alpaca_broker", Operation: "get_account", StatusCode: 404}
	wrapped := fmt.Errorf("fetching account: %w", uerr)

	got, ok := AsUpstreamError(wrapped)
	if !ok {
		t.Fatal("expected wrapped UpstreamError to be found")
	}
	if got.StatusCode != 404 || got.Provider != "alpaca_broker" {
		t.Errorf("unexpected unwrapped error: %+v", got)
	}

	if _, ok := AsUpstreamError(errors.New("plain")); ok {
		t.Error("plain error should not match UpstreamError")
	}
}

func TestAsValidationError(t *testing.T) {
	verr := NewMissingFieldsError("firstName", "email")
	wrapped := fmt.Errorf("creating account: %w", verr)

	got, ok := AsValidationError(wrapped)
	if !ok {
		t.Fatal("expected wrapped ValidationError to be found")
	}
	if len(got.Missing) != 2 {
		t.Errorf("Missing = %v, want two fields", got.Missing)
	}
}

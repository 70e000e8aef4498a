package models

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTradeRequestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  TradeRequest
		want []string
	}{
		{
			name: "all present",
			req:  TradeRequest{AccountID: "a1", Symbol: "AAPL", Side: "buy", Qty: decimal.NewFromInt(3)},
			want: nil,
		},
		{
			name: "empty request",
			req:  TradeRequest{},
			want: []string{"accountId", "symbol", "side", "qty"},
		},
		{
			name: "missing qty only",
			req:  TradeRequest{AccountID: "a1", Symbol: "AAPL", Side: "buy"},
			want: []string{"qty"},
		},
		{
			name: "missing symbol and side",
			req:  TradeRequest{AccountID: "a1", Qty: decimal.NewFromInt(1)},
			want: []string{"symbol", "side"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.MissingFields()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTradeRequestValidate(t *testing.T) {
	req := TradeRequest{AccountID: "a1", Symbol: "AAPL", Side: "buy", Qty: decimal.NewFromInt(-2)}
	verr := req.Validate()
	if verr == nil {
		t.Fatal("expected validation error for negative qty")
	}
	if len(verr.Missing) != 0 {
		t.Errorf("negative qty should be a semantic violation, not a missing field, got %v", verr.Missing)
	}

	req.Qty = decimal.NewFromInt(2)
	if verr := req.Validate(); verr != nil {
		t.Errorf("expected valid request, got %v", verr)
	}
}

func TestTradeRequestNormalize(t *testing.T) {
	tests := []struct {
		name string
		req  TradeRequest
		want OrderPayload
	}{
		{
			name: "defaults and case folding",
			req:  TradeRequest{AccountID: "a1", Symbol: "aapl", Side: "BUY", Qty: decimal.NewFromInt(3)},
			want: OrderPayload{Symbol: "AAPL", Qty: "3", Side: "buy", Type: "market", TimeInForce: "day"},
		},
		{
			name: "limit order keeps prices",
			req: TradeRequest{
				AccountID:   "a1",
				Symbol:      "msft",
				Side:        "sell",
				Qty:         decimal.RequireFromString("1.5"),
				Type:        "LIMIT",
				TimeInForce: "GTC",
				LimitPrice:  decimal.RequireFromString("410.25"),
			},
			want: OrderPayload{Symbol: "MSFT", Qty: "1.5", Side: "sell", Type: "limit", TimeInForce: "gtc", LimitPrice: "410.25"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.Normalize()
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStop      OrderType = "stop"
	OrderTypeStopLimit OrderType = "stop_limit"
)

type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

// Order mirrors the broker's order record. The lifecycle
// (submitted -> filled/partially_filled/canceled/rejected/expired) is owned
// upstream; this service is a polling observer only.
type Order struct {
	ID             string `json:"id"`
	ClientOrderID  string `json:"client_order_id,omitempty"`
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	Side           string `json:"side"`
	OrderType      string `json:"order_type,omitempty"`
	Type           string `json:"type,omitempty"`
	TimeInForce    string `json:"time_in_force"`
	LimitPrice     string `json:"limit_price,omitempty"`
	StopPrice      string `json:"stop_price,omitempty"`
	Status         string `json:"status"`
	FilledQty      string `json:"filled_qty"`
	FilledAvgPrice string `json:"filled_avg_price,omitempty"`
	SubmittedAt    string `json:"submitted_at,omitempty"`
	FilledAt       string `json:"filled_at,omitempty"`
	CanceledAt     string `json:"canceled_at,omitempty"`
}

// TradeRequest is the inbound order-submission contract.
type TradeRequest struct {
	AccountID   string          `json:"accountId"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Qty         decimal.Decimal `json:"qty"`
	Type        string          `json:"type,omitempty"`
	TimeInForce string          `json:"time_in_force,omitempty"`
	LimitPrice  decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice   decimal.Decimal `json:"stop_price,omitempty"`
}

// MissingFields returns the absent required fields in wire-contract order.
// A zero qty counts as missing; a negative qty is a semantic violation
// handled by Validate.
func (r *TradeRequest) MissingFields() []string {
	var missing []string
	if r.AccountID == "" {
		missing = append(missing, "accountId")
	}
	if r.Symbol == "" {
		missing = append(missing, "symbol")
	}
	if r.Side == "" {
		missing = append(missing, "side")
	}
	if r.Qty.IsZero() {
		missing = append(missing, "qty")
	}
	return missing
}

// Validate checks the request without touching any upstream. Invalid
// requests are never forwarded.
func (r *TradeRequest) Validate() *ValidationError {
	if missing := r.MissingFields(); len(missing) > 0 {
		return NewMissingFieldsError(missing...)
	}
	if r.Qty.Sign() <= 0 {
		return NewValidationError("qty must be a positive number, got %s", r.Qty.String())
	}
	return nil
}

// OrderPayload is the normalized broker order submission: symbol uppercased,
// side/type/time_in_force lowercased, qty serialized as a string.
type OrderPayload struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
	LimitPrice  string `json:"limit_price,omitempty"`
	StopPrice   string `json:"stop_price,omitempty"`
}

// Normalize builds the broker payload, applying the market/day defaults.
func (r *TradeRequest) Normalize() OrderPayload {
	orderType := r.Type
	if orderType == "" {
		orderType = string(OrderTypeMarket)
	}
	tif := r.TimeInForce
	if tif == "" {
		tif = string(TimeInForceDay)
	}

	p := OrderPayload{
		Symbol:      strings.ToUpper(r.Symbol),
		Qty:         r.Qty.String(),
		Side:        strings.ToLower(r.Side),
		Type:        strings.ToLower(orderType),
		TimeInForce: strings.ToLower(tif),
	}
	if !r.LimitPrice.IsZero() {
		p.LimitPrice = r.LimitPrice.String()
	}
	if !r.StopPrice.IsZero() {
		p.StopPrice = r.StopPrice.String()
	}
	return p
}

// TradeResponse acknowledges submission. The message is synthesized here;
// fill status comes from polling the orders endpoint.
type TradeResponse struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order"`
	Message string `json:"message"`
}

package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"matty-api/config"
	"matty-api/internal/app"
	"matty-api/models"
	"matty-api/observability"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// HandleHealth returns liveness plus provider configuration flags
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.app.Health())
}

// HandleCreateAccount opens a brokerage account and provisions a virtual card
func (h *Handler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	resp, err := h.app.CreateAccount(r.Context(), &req, clientIP(r))
	if err != nil {
		h.writeError(w, err, "Failed to create account")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// HandleGetAccount returns the brokerage account record
func (h *Handler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.app.GetAccount(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch account")
		return
	}
	h.jsonResponse(w, http.StatusOK, account)
}

// HandleGetBalance returns the cash/buying-power snapshot
func (h *Handler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.app.GetBalance(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch balance")
		return
	}
	h.jsonResponse(w, http.StatusOK, balance)
}

// HandleGetPositions returns the account's open positions
func (h *Handler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.app.GetPositions(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch positions")
		return
	}
	h.jsonResponse(w, http.StatusOK, positions)
}

// HandleGetOrders returns order history filtered by status
func (h *Handler) HandleGetOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := parseIntParam(r, "limit", 50)

	orders, err := h.app.GetOrders(r.Context(), chi.URLParam(r, "accountId"), status, limit)
	if err != nil {
		h.writeError(w, err, "Failed to fetch orders")
		return
	}
	h.jsonResponse(w, http.StatusOK, orders)
}

// HandleGetActivities returns the account activity log
func (h *Handler) HandleGetActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.app.GetActivities(r.Context(),
		chi.URLParam(r, "accountId"),
		r.URL.Query().Get("activity_type"),
		r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch activities")
		return
	}
	h.jsonResponse(w, http.StatusOK, activities)
}

// HandleGetPortfolioHistory returns the account's equity curve
func (h *Handler) HandleGetPortfolioHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.app.GetPortfolioHistory(r.Context(),
		chi.URLParam(r, "accountId"),
		r.URL.Query().Get("period"),
		r.URL.Query().Get("timeframe"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch portfolio history")
		return
	}
	h.jsonResponse(w, http.StatusOK, history)
}

// HandleExecuteTrade submits an order
func (h *Handler) HandleExecuteTrade(w http.ResponseWriter, r *http.Request) {
	var req models.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	resp, err := h.app.ExecuteTrade(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to execute trade")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// HandleCancelOrder cancels an open order
func (h *Handler) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	orderID := chi.URLParam(r, "orderId")

	if err := h.app.CancelOrder(r.Context(), accountID, orderID); err != nil {
		h.writeError(w, err, "Failed to cancel order")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order canceled successfully",
	})
}

// HandleTransfer initiates an ACH transfer
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	resp, err := h.app.InitiateTransfer(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to initiate transfer")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// HandleSimulateAlgoTrading returns the scripted demo activity feed
func (h *Handler) HandleSimulateAlgoTrading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID string          `json:"accountId"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	resp, err := h.app.SimulateAlgoTrading(req.AccountID, req.Amount)
	if err != nil {
		h.writeError(w, err, "Failed to simulate trading")
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// HandleGetQuote returns the latest quote for a symbol
func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.app.GetQuote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch quote")
		return
	}
	h.jsonResponse(w, http.StatusOK, quote)
}

// HandleGetWatchlist returns the watchlist snapshot. Degraded symbols get
// synthetic entries; this endpoint never fails.
func (h *Handler) HandleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.app.GetWatchlist(r.Context()))
}

// HandleGetMarketStatus returns the market clock
func (h *Handler) HandleGetMarketStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.app.GetMarketStatus(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to fetch market status")
		return
	}
	h.jsonResponse(w, http.StatusOK, status)
}

// HandleGetMarketCalendar returns upcoming trading days
func (h *Handler) HandleGetMarketCalendar(w http.ResponseWriter, r *http.Request) {
	calendar, err := h.app.GetMarketCalendar(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to fetch market calendar")
		return
	}
	h.jsonResponse(w, http.StatusOK, calendar)
}

// HandleGetAsset returns one tradable asset by symbol
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.app.GetAsset(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeError(w, err, "Failed to fetch asset")
		return
	}
	h.jsonResponse(w, http.StatusOK, asset)
}

// HandleSearchAssets searches active US equities
func (h *Handler) HandleSearchAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.app.SearchAssets(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.writeError(w, err, "Failed to search assets")
		return
	}
	h.jsonResponse(w, http.StatusOK, assets)
}

// HandleCreatePaymentIntent creates a payment intent for funding flows
func (h *Handler) HandleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Amount == 0 || req.Currency == "" {
		h.jsonError(w, "Amount and currency are required.", http.StatusBadRequest)
		return
	}

	secret, err := h.app.CreatePaymentIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		h.writeError(w, err, "Failed to create payment intent")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

// HandleNotFound keeps the JSON contract on unmatched routes
func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.jsonError(w, "Endpoint not found", http.StatusNotFound)
}

// Helper functions

// writeError maps validation failures to 400 with the field list and
// everything else to 500. Upstream detail is only surfaced in development.
func (h *Handler) writeError(w http.ResponseWriter, err error, fallbackMsg string) {
	if verr, ok := models.AsValidationError(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		if len(verr.Missing) > 0 {
			json.NewEncoder(w).Encode(map[string]any{
				"error":    "Missing required fields",
				"required": verr.Missing,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"error": verr.Error()})
		return
	}

	if uerr, ok := models.AsUpstreamError(err); ok {
		observability.Error(fallbackMsg,
			"provider", uerr.Provider,
			"operation", uerr.Operation,
			"status", uerr.StatusCode,
			"error", uerr.Error())
		if h.cfg.Development {
			h.jsonErrorWithMessage(w, fallbackMsg, uerr.Error(), http.StatusInternalServerError)
			return
		}
		h.jsonError(w, fallbackMsg, http.StatusInternalServerError)
		return
	}

	observability.Error(fallbackMsg, "error", err)
	h.jsonError(w, fallbackMsg, http.StatusInternalServerError)
}

func clientIP(r *http.Request) string {
	// middleware.RealIP has already rewritten RemoteAddr from the
	// forwarding headers when present.
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func parseIntParam(r *http.Request, name string, defaultValue int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *Handler) jsonErrorWithMessage(w http.ResponseWriter, errMsg, detail string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": errMsg, "message": detail})
}

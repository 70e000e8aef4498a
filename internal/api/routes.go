package api

import (
	"net/http"
	"strings"
	"time"

	"matty-api/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second))
	r.Use(CORSMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(MetricsMiddleware)

	// Health check
	r.Get("/health", h.HandleHealth)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// Payment sheet token (mounted at the root for client compatibility)
	r.Post("/create-payment-intent", h.HandleCreatePaymentIntent)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Account lifecycle
		r.Post("/create-alpaca-account", h.HandleCreateAccount)
		r.Route("/account/{accountId}", func(r chi.Router) {
			r.Get("/", h.HandleGetAccount)
			r.Get("/balance", h.HandleGetBalance)
			r.Get("/positions", h.HandleGetPositions)
			r.Get("/orders", h.HandleGetOrders)
			r.Delete("/orders/{orderId}", h.HandleCancelOrder)
			r.Get("/activities", h.HandleGetActivities)
			r.Get("/portfolio-history", h.HandleGetPortfolioHistory)
		})

		// Trading and money movement
		r.Post("/execute-trade", h.HandleExecuteTrade)
		r.Post("/transfer", h.HandleTransfer)
		r.Post("/simulate-algo-trading", h.HandleSimulateAlgoTrading)

		// Market data
		r.Route("/market", func(r chi.Router) {
			r.Get("/quotes/{symbol}", h.HandleGetQuote)
			r.Get("/watchlist", h.HandleGetWatchlist)
			r.Get("/status", h.HandleGetMarketStatus)
			r.Get("/calendar", h.HandleGetMarketCalendar)
		})

		// Assets
		r.Get("/assets", h.HandleSearchAssets)
		r.Get("/assets/{symbol}", h.HandleGetAsset)
	})

	r.NotFound(h.HandleNotFound)

	return r
}

// CORSMiddleware returns CORS middleware for the configured origins:
// "*", a single origin, or a comma-separated list matched against the
// request's Origin header.
func CORSMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	var allowed []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed = append(allowed, origin)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedOrigins == "*" {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" {
				for _, candidate := range allowed {
					if candidate == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Add("Vary", "Origin")
						break
					}
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

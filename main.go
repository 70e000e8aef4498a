// Package main runs the Matty backend: a stateless proxy between the mobile
// app and the brokerage, card-issuing and payment providers.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matty-api/config"
	"matty-api/internal/api"
	"matty-api/internal/app"
	"matty-api/observability"
	"matty-api/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger(false)
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitLogger(!cfg.Development)
	observability.InitMetrics()

	if !cfg.HasAlpaca() {
		observability.Warn("broker API credentials not set, upstream calls will fail")
	}
	if !cfg.HasLithic() {
		observability.Warn("card issuer not configured, virtual cards will be mocked")
	}
	if !cfg.HasStripe() {
		observability.Warn("payment provider not configured, payment intents unavailable")
	}

	limiter := services.NewProviderLimiter(cfg.Upstream.RateLimitPerSecond, cfg.Upstream.RateLimitBurst)

	broker := services.NewBrokerService(cfg, limiter)
	marketData := services.NewMarketDataService(cfg, limiter)
	cards := services.NewLithicService(cfg, limiter)
	payments := services.NewStripeService(cfg, limiter)

	application := app.New(cfg, broker, marketData, cards, payments)

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	}

	go func() {
		observability.Info("starting server",
			"port", cfg.HTTP.Port,
			"watchlist", cfg.Watchlist.Symbols,
			"development", cfg.Development)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}

	observability.Info("server stopped")
}

// Package main serves the mock upstream providers on a real port. Point
// ALPACA_BASE_URL, ALPACA_TRADING_BASE_URL, ALPACA_DATA_BASE_URL, and
// LITHIC_BASE_URL at this process to run the API locally without any
// provider credentials.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matty-api/e2e/mocks"
	"matty-api/observability"
)

func main() {
	observability.InitLogger(false)

	port := os.Getenv("MOCK_UPSTREAM_PORT")
	if port == "" {
		port = "9090"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mocks.NewHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		observability.Info("starting mock upstream", "port", port, "url", fmt.Sprintf("http://localhost:%s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down mock upstream...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}
	observability.Info("mock upstream stopped")
}

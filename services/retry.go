package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matty-api/models"
	"matty-api/observability"
)

type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries:     3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// WithRetry retries fn with exponential backoff. Provider 4xx rejections are
// returned immediately: retrying a rejected KYC payload or a bad order will
// never succeed. Only network failures and 5xx responses are retried.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		if !isTransient(err) {
			return err
		}

		lastErr = err
		if attempt < config.MaxRetries {
			observability.Warn("retrying upstream call",
				"attempt", attempt+1,
				"max_retries", config.MaxRetries,
				"error", err)
		}
	}

	return fmt.Errorf("failed after %d retries: %w", config.MaxRetries, lastErr)
}

func isTransient(err error) bool {
	var ue *models.UpstreamError
	if errors.As(err, &ue) {
		return ue.Transient()
	}
	return true
}

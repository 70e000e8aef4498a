package services

import (
	"context"
	"net/http"
	"strconv"

	"matty-api/config"
	"matty-api/models"
	"matty-api/observability"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

const paymentProvider = "stripe"

// StripeService fronts payment intent creation for card funding top-ups.
type StripeService struct {
	api     *client.API
	limiter *ProviderLimiter
}

// NewStripeService creates a new StripeService instance. The returned
// service is non-nil even when no secret key is configured; calls will
// report the missing configuration as an upstream error.
func NewStripeService(cfg *config.Config, limiter *ProviderLimiter) *StripeService {
	s := &StripeService{limiter: limiter}
	if cfg.Stripe.SecretKey != "" {
		s.api = &client.API{}
		s.api.Init(cfg.Stripe.SecretKey, nil)
	}
	return s
}

// Configured reports whether payment processing is available.
func (s *StripeService) Configured() bool {
	return s.api != nil
}

// CreatePaymentIntent creates a payment intent for the given amount in cents
// and returns its client secret for confirmation on the mobile side.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if !s.Configured() {
		return "", &models.UpstreamError{
			Provider:   paymentProvider,
			Operation:  "create_payment_intent",
			StatusCode: http.StatusServiceUnavailable,
			Body:       "payment processing is not configured",
		}
	}

	if err := s.limiter.Wait(ctx, paymentProvider); err != nil {
		return "", err
	}

	metrics := observability.GetMetrics()
	metrics.RecordUpstreamRequest(paymentProvider, "create_payment_intent")
	timer := metrics.NewTimer()
	defer timer.ObserveUpstream(paymentProvider, "create_payment_intent")

	if currency == "" {
		currency = "usd"
	}

	return WithCircuitBreaker(ctx, BreakerStripe, func() (string, error) {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(amount),
			Currency: stripe.String(currency),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
		}
		params.Context = ctx

		intent, err := s.api.PaymentIntents.New(params)
		if err != nil {
			status := 0
			reason := "network"
			if stripeErr, ok := err.(*stripe.Error); ok {
				status = stripeErr.HTTPStatusCode
				reason = strconv.Itoa(status)
			}
			metrics.RecordUpstreamError(paymentProvider, "create_payment_intent", reason)
			return "", &models.UpstreamError{
				Provider:   paymentProvider,
				Operation:  "create_payment_intent",
				StatusCode: status,
				Err:        err,
			}
		}
		return intent.ClientSecret, nil
	})
}

// Compile-time interface verification
var _ PaymentServiceInterface = (*StripeService)(nil)

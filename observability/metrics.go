package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Upstream provider metrics
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamErrorsTotal   *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec

	// Degraded fallback metrics: failures absorbed into synthetic values
	FallbacksTotal *prometheus.CounterVec

	// Order submission metrics
	OrdersSubmittedTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matty_api",
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of upstream provider requests",
			},
			[]string{"provider", "operation"},
		),
		UpstreamErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matty_api",
				Subsystem: "upstream",
				Name:      "errors_total",
				Help:      "Total number of upstream provider errors",
			},
			[]string{"provider", "operation", "error_type"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "matty_api",
				Subsystem: "upstream",
				Name:      "duration_seconds",
				Help:      "Duration of upstream provider calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"provider", "operation"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matty_api",
				Subsystem: "degraded",
				Name:      "fallbacks_total",
				Help:      "Total number of failures absorbed into synthetic substitute values",
			},
			[]string{"provider", "operation"},
		),
		OrdersSubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matty_api",
				Subsystem: "trading",
				Name:      "orders_submitted_total",
				Help:      "Total number of orders forwarded to the broker",
			},
			[]string{"side", "type"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matty_api",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "matty_api",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "matty_api",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "matty_api",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"provider"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matty_api",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"provider"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordUpstreamRequest records an upstream provider request
func (m *Metrics) RecordUpstreamRequest(provider, operation string) {
	m.UpstreamRequestsTotal.WithLabelValues(provider, operation).Inc()
}

// RecordUpstreamError records an upstream provider error
func (m *Metrics) RecordUpstreamError(provider, operation, errorType string) {
	m.UpstreamErrorsTotal.WithLabelValues(provider, operation, errorType).Inc()
}

// RecordUpstreamDuration records the duration of an upstream provider call
func (m *Metrics) RecordUpstreamDuration(provider, operation string, duration time.Duration) {
	m.UpstreamDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordFallback records a degraded-fallback event
func (m *Metrics) RecordFallback(provider, operation string) {
	m.FallbacksTotal.WithLabelValues(provider, operation).Inc()
}

// RecordOrderSubmitted records an order forwarded to the broker
func (m *Metrics) RecordOrderSubmitted(side, orderType string) {
	m.OrdersSubmittedTotal.WithLabelValues(side, orderType).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(provider string, state int) {
	m.CircuitBreakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(provider string) {
	m.CircuitBreakerTrips.WithLabelValues(provider).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveUpstream records the upstream call duration
func (t *Timer) ObserveUpstream(provider, operation string) {
	t.metrics.RecordUpstreamDuration(provider, operation, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

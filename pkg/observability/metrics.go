package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbound HTTP metrics
	transportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of HTTPS posts to the gateway",
		},
		[]string{"outcome"}, // ok, connection_error, http_error, circuit_open, rate_limited
	)

	transportRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Duration of HTTPS posts to the gateway in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	transportRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_http_requests_in_flight",
			Help: "Number of gateway posts currently waiting for an answer",
		},
	)

	circuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_circuit_breaker_state",
			Help: "Gateway circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)
)

// TrackTransportRequest marks a post as in flight. Call the returned func
// with the outcome label and elapsed seconds once it finishes.
func TrackTransportRequest() func(outcome string, seconds float64) {
	transportRequestsInFlight.Inc()
	return func(outcome string, seconds float64) {
		transportRequestsInFlight.Dec()
		transportRequestsTotal.WithLabelValues(outcome).Inc()
		transportRequestDuration.WithLabelValues(outcome).Observe(seconds)
	}
}

// SetCircuitBreakerState publishes the breaker state as a number
func SetCircuitBreakerState(state int) {
	circuitBreakerState.Set(float64(state))
}

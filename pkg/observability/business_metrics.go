package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway transaction metrics
	gatewayTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_transactions_total",
		Help: "Total number of card transactions submitted to the gateway",
	}, []string{
		"transaction_type", // AUTH_CAPTURE, AUTH_ONLY, PRIOR_AUTH_CAPTURE, VOID, CAPTURE_ONLY, CREDIT
		"state",            // approved, declined, error
		"response_code",    // gateway response code, empty on connection failure
	})

	gatewayAmountCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_amount_cents_total",
		Help: "Total amount returned by the gateway in cents",
	}, []string{
		"transaction_type",
		"state",
	})

	// End-to-end gateway round trip, including parsing
	gatewayTransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_transaction_duration_seconds",
		Help:    "Time to submit a transaction and parse the gateway answer",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"transaction_type",
		"state",
	})

	// Requests rejected before any network call
	gatewayRejectedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_rejected_requests_total",
		Help: "Requests rejected locally (unknown field, reused builder)",
	}, []string{
		"transaction_type",
	})
)

// RecordGatewayTransaction records one completed gateway call
func RecordGatewayTransaction(transactionType, state, responseCode string, amountCents int64, duration float64) {
	gatewayTransactionsTotal.WithLabelValues(transactionType, state, responseCode).Inc()

	// Only approved money moves count toward volume
	if state == "approved" && amountCents > 0 {
		gatewayAmountCents.WithLabelValues(transactionType, state).Add(float64(amountCents))
	}

	gatewayTransactionDuration.WithLabelValues(transactionType, state).Observe(duration)
}

// RecordRejectedRequest records a request that never reached the gateway
func RecordRejectedRequest(transactionType string) {
	gatewayRejectedRequestsTotal.WithLabelValues(transactionType).Inc()
}

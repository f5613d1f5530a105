package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	FlightOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_operations_total",
			Help: "Flight service operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// ObserveOperation records the outcome of a service call.
func ObserveOperation(operation, outcome string) {
	FlightOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

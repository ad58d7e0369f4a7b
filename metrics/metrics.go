// Package metrics defines the Prometheus metrics exported by the API. The
// collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "printshop"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// ServiceOperationsTotal counts service calls.
// Labels:
//   - entity: "Order", "Customer" or "User"
//   - operation: e.g. "create", "update", "delete"
//   - outcome: success, invalid, conflict or error
var ServiceOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_operations_total",
		Help:      "Total number of service operations, by entity, operation and outcome.",
	},
	[]string{"entity", "operation", "outcome"},
)

// HTTPRequestsTotal counts handled requests.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// RecordOperation increments ServiceOperationsTotal.
func RecordOperation(entity, operation, outcome string) {
	ServiceOperationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}

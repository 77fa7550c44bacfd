// Package metrics holds the Prometheus collectors for AI calls and the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Attempt outcomes recorded on AIAttemptsTotal.
const (
	OutcomeSuccess         = "success"
	OutcomeInvocationError = "invocation_error"
	OutcomeParseError      = "parse_error"
	OutcomeValidationError = "validation_error"
)

var (
	// AIAttemptsTotal counts every generate/parse/validate attempt.
	AIAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_attempts_total",
			Help: "Total number of AI generation attempts by feature and outcome",
		},
		[]string{"feature", "outcome"},
	)
	// AIRetryExhaustedTotal counts requests that ran out of attempts.
	AIRetryExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_retry_exhausted_total",
			Help: "Total number of AI requests that exhausted their retry budget",
		},
		[]string{"feature", "kind"},
	)
	// AIAttemptsPerRequest observes how many attempts a request needed.
	AIAttemptsPerRequest = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_attempts_per_request",
			Help:    "Number of attempts used per AI request",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"feature"},
	)
	// HTTPRequestsTotal counts API requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
)

// Registry is the application registry; collectors are registered on it once.
var Registry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		AIAttemptsTotal,
		AIRetryExhaustedTotal,
		AIAttemptsPerRequest,
		HTTPRequestsTotal,
	)
	return reg
}

// Handler serves the application registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

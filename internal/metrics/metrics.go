// Package metrics exposes Prometheus counters for auth outcomes and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for AuthOperations.
const (
	OutcomeSuccess            = "success"
	OutcomeMissingFields      = "missing_fields"
	OutcomeDuplicateUser      = "duplicate_user"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUnauthorized       = "unauthorized"
	OutcomeInternalError      = "internal_error"
)

// AuthOperations counts auth service calls by operation and outcome.
var AuthOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookshelf_auth_operations_total",
		Help: "Total number of auth operations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

// GuardRejections counts requests rejected by the auth guard.
var GuardRejections = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookshelf_auth_guard_rejections_total",
		Help: "Total number of requests rejected by the auth guard by reason",
	},
	[]string{"reason"},
)

var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookshelf_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	},
	[]string{"method", "route", "status"},
)

var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "bookshelf_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// NewRegistry returns a registry with the Go/process collectors and every
// metric in this package registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Register(reg)
	return reg
}

// Register adds the package metrics to reg. Panics on duplicate registration.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(AuthOperations)
	reg.MustRegister(GuardRejections)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func RecordAuthOperation(operation string, outcome string) {
	AuthOperations.WithLabelValues(operation, outcome).Inc()
}

func RecordGuardRejection(reason string) {
	GuardRejections.WithLabelValues(reason).Inc()
}

func RecordHTTPRequest(method string, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

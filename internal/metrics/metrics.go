// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for auth workflow metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// HTTPRequests counts handled HTTP requests.
// Use RegisterMetrics to register this with a Prometheus registry.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "password_reset_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status",
	},
	[]string{"route", "method", "status"},
)

// HTTPDuration observes HTTP request latency.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "password_reset_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// AuthEvents counts auth workflow outcomes per operation.
var AuthEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "password_reset_auth_events_total",
		Help: "Total number of auth workflow operations by event and outcome",
	},
	[]string{"event", "outcome"},
)

// EmailSends counts outbound email attempts.
var EmailSends = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "password_reset_email_sends_total",
		Help: "Total number of outbound emails by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers the application collectors with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(AuthEvents)
	reg.MustRegister(EmailSends)
}

// NewRegistry returns a registry with the Go and process collectors and the
// application collectors registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	RegisterMetrics(reg)
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordAuthEvent records the outcome of an auth workflow operation.
func RecordAuthEvent(event string, success bool) {
	AuthEvents.WithLabelValues(event, outcome(success)).Inc()
}

// RecordEmailSend records the outcome of an outbound email.
func RecordEmailSend(success bool) {
	EmailSends.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

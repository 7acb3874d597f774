// Package metrics provides Prometheus metrics for the Ghost Content MCP server.
// It tracks tool calls, Content API latency and failures, credential resolution
// and the state of the outbound circuit breaker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "ghost_content_mcp"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures request latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing requests
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})

	// ContentAPIRequestsTotal counts Content API requests by resource and HTTP status class
	ContentAPIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "content_api_requests_total",
		Help:      "Total Ghost Content API requests by resource and status",
	}, []string{"resource", "status"})

	// ContentAPILatency measures Content API call latency by resource
	ContentAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "content_api_latency_seconds",
		Help:      "Ghost Content API call latency by resource",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource"})

	// ContentAPIErrors counts failed Content API calls by resource and error kind
	ContentAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "content_api_errors_total",
		Help:      "Ghost Content API failures by resource and error kind",
	}, []string{"resource", "kind"})

	// ResponseSize tracks Content API payload sizes
	ResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "content_api_response_bytes",
		Help:      "Ghost Content API response size distribution in bytes",
		Buckets:   []float64{100, 1000, 10000, 50000, 100000, 250000, 500000, 1000000},
	}, []string{"resource"})

	// CredentialResolutions counts credential resolutions by outcome
	CredentialResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "credential_resolutions_total",
		Help:      "Ghost credential resolutions by outcome",
	}, []string{"outcome"})

	// CircuitBreakerState reports the outbound circuit state (0 closed, 1 open, 2 half-open)
	CircuitBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "circuit_breaker_state",
		Help:      "Outbound circuit breaker state: 0 closed, 1 open, 2 half-open",
	})

	// RateLimitWaits counts requests that had to wait for a free request slot
	RateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limit_waits_total",
		Help:      "Requests that waited for the concurrency semaphore",
	})

	// HTTPRequestsTotal counts HTTP transport requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method and status",
	}, []string{"method", "status"})

	// HTTPRequestDuration measures HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distribution",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// RecordRequest records a completed tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	RequestsTotal.WithLabelValues(tool, statusLabel(success)).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordAPICall records one Content API call. statusCode is 0 when no HTTP
// response was received; errorKind is empty on success.
func RecordAPICall(resource string, duration float64, statusCode int, errorKind string) {
	ContentAPIRequestsTotal.WithLabelValues(resource, statusClass(statusCode)).Inc()
	ContentAPILatency.WithLabelValues(resource).Observe(duration)
	if errorKind != "" {
		ContentAPIErrors.WithLabelValues(resource, errorKind).Inc()
	}
}

// RecordResponseSize records the size of a Content API payload
func RecordResponseSize(resource string, size int) {
	ResponseSize.WithLabelValues(resource).Observe(float64(size))
}

// RecordCredentialResolution records the outcome of a credential lookup
func RecordCredentialResolution(success bool) {
	CredentialResolutions.WithLabelValues(statusLabel(success)).Inc()
}

// SetCircuitState updates the circuit breaker gauge
func SetCircuitState(state int) {
	CircuitBreakerState.Set(float64(state))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// statusClass collapses status codes into 2xx/4xx/5xx to bound label cardinality.
func statusClass(code int) string {
	switch {
	case code == 0:
		return "none"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordRequest(t *testing.T) {
	tests := []struct {
		name       string
		tool       string
		duration   float64
		success    bool
		wantStatus string
	}{
		{
			name:       "successful request",
			tool:       "test_tool",
			duration:   0.5,
			success:    true,
			wantStatus: "success",
		},
		{
			name:       "failed request",
			tool:       "test_tool",
			duration:   1.0,
			success:    false,
			wantStatus: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := getCounterValue(t, RequestsTotal.WithLabelValues(tt.tool, tt.wantStatus))

			RecordRequest(tt.tool, tt.duration, tt.success)

			if got := getCounterValue(t, RequestsTotal.WithLabelValues(tt.tool, tt.wantStatus)); got != before+1 {
				t.Errorf("requests_total = %v, want %v", got, before+1)
			}
		})
	}
}

func TestRecordAPICall(t *testing.T) {
	tests := []struct {
		name       string
		resource   string
		statusCode int
		errorKind  string
		wantStatus string
	}{
		{
			name:       "successful call",
			resource:   "posts",
			statusCode: 200,
			wantStatus: "2xx",
		},
		{
			name:       "not found",
			resource:   "tags",
			statusCode: 404,
			errorKind:  "http_status",
			wantStatus: "4xx",
		},
		{
			name:       "network failure",
			resource:   "pages",
			statusCode: 0,
			errorKind:  "network",
			wantStatus: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := getCounterValue(t, ContentAPIRequestsTotal.WithLabelValues(tt.resource, tt.wantStatus))

			RecordAPICall(tt.resource, 0.1, tt.statusCode, tt.errorKind)

			if got := getCounterValue(t, ContentAPIRequestsTotal.WithLabelValues(tt.resource, tt.wantStatus)); got != before+1 {
				t.Errorf("content_api_requests_total = %v, want %v", got, before+1)
			}

			if tt.errorKind != "" {
				if got := getCounterValue(t, ContentAPIErrors.WithLabelValues(tt.resource, tt.errorKind)); got < 1 {
					t.Error("expected error counter to be incremented")
				}
			}
		})
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		0:   "none",
		101: "1xx",
		200: "2xx",
		204: "2xx",
		301: "3xx",
		404: "4xx",
		500: "5xx",
		503: "5xx",
	}
	for code, want := range tests {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestRecordCredentialResolution(t *testing.T) {
	success := getCounterValue(t, CredentialResolutions.WithLabelValues("success"))
	failure := getCounterValue(t, CredentialResolutions.WithLabelValues("error"))

	RecordCredentialResolution(true)
	RecordCredentialResolution(false)

	if getCounterValue(t, CredentialResolutions.WithLabelValues("success")) != success+1 {
		t.Error("expected success counter to increment")
	}
	if getCounterValue(t, CredentialResolutions.WithLabelValues("error")) != failure+1 {
		t.Error("expected error counter to increment")
	}
}

func TestSetCircuitState(t *testing.T) {
	SetCircuitState(1)

	var m dto.Metric
	if err := CircuitBreakerState.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if m.Gauge.GetValue() != 1 {
		t.Errorf("expected circuit state 1, got %v", m.Gauge.GetValue())
	}

	SetCircuitState(0)
	if err := CircuitBreakerState.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if m.Gauge.GetValue() != 0 {
		t.Errorf("expected circuit state 0, got %v", m.Gauge.GetValue())
	}
}

func TestMetricsRegistered(t *testing.T) {
	metrics := []prometheus.Collector{
		RequestsTotal,
		RequestDuration,
		RequestInFlight,
		PanicsRecovered,
		ContentAPIRequestsTotal,
		ContentAPILatency,
		ContentAPIErrors,
		ResponseSize,
		CredentialResolutions,
		CircuitBreakerState,
		RateLimitWaits,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	}

	for i, m := range metrics {
		if m == nil {
			t.Errorf("metric at index %d is nil", i)
		}
	}
}

func TestNamespace(t *testing.T) {
	if Namespace != "ghost_content_mcp" {
		t.Errorf("expected namespace 'ghost_content_mcp', got '%s'", Namespace)
	}
}

// Helper to get counter value
func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SSE connection close reason constants to prevent high cardinality metrics
const (
	SSECloseReasonClosed   = "closed"   // Normal client disconnect
	SSECloseReasonCanceled = "canceled" // Server shutdown
	SSECloseReasonError    = "error"    // Write failure
)

// HTTPMetrics contains Prometheus metrics for the web server
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	sseActiveConnections  prometheus.Gauge
	sseTotalConnections   *prometheus.CounterVec
	sseConnectionDuration prometheus.Histogram
	sseMessagesSent       *prometheus.CounterVec
}

// NewHTTPMetrics creates and registers HTTP metrics
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"}, // path is the route pattern, not the raw URL
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Time taken for HTTP requests",
				Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12), // 1ms to ~2s
			},
			[]string{"method", "path"},
		),
		sseActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_active_connections",
			Help: "Number of open server-sent event streams",
		}),
		sseTotalConnections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sse_connections_total",
				Help: "Total number of server-sent event connections by outcome",
			},
			[]string{"reason"},
		),
		sseConnectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sse_connection_duration_seconds",
			Help:    "Lifetime of server-sent event connections",
			Buckets: prometheus.ExponentialBuckets(1, BucketFactor2, BucketCount12), // 1s to ~34min
		}),
		sseMessagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sse_messages_sent_total",
				Help: "Total number of server-sent event messages",
			},
			[]string{"type"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *HTTPMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.sseActiveConnections,
		m.sseTotalConnections,
		m.sseConnectionDuration,
		m.sseMessagesSent,
	}
}

// Describe implements the Collector interface
func (m *HTTPMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *HTTPMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// RecordHTTPRequest records a completed request
func (m *HTTPMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SSEConnectionStarted increments the active connection gauge
func (m *HTTPMetrics) SSEConnectionStarted() {
	m.sseActiveConnections.Inc()
}

// SSEConnectionClosed decrements active connections and records duration.
// Unknown reasons are recorded as errors.
func (m *HTTPMetrics) SSEConnectionClosed(duration time.Duration, reason string) {
	switch reason {
	case SSECloseReasonClosed, SSECloseReasonCanceled, SSECloseReasonError:
	default:
		reason = SSECloseReasonError
	}
	m.sseActiveConnections.Dec()
	m.sseTotalConnections.WithLabelValues(reason).Inc()
	m.sseConnectionDuration.Observe(duration.Seconds())
}

// RecordSSEMessageSent records an SSE message sent
func (m *HTTPMetrics) RecordSSEMessageSent(messageType string) {
	m.sseMessagesSent.WithLabelValues(messageType).Inc()
}

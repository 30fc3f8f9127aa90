package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookmarkMetrics tracks bookmark store activity
type BookmarkMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	count             prometheus.Gauge
}

// NewBookmarkMetrics creates and registers bookmark metrics
func NewBookmarkMetrics(registry *prometheus.Registry) (*BookmarkMetrics, error) {
	m := &BookmarkMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmark_operations_total",
				Help: "Total number of bookmark store operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookmark_operation_duration_seconds",
				Help:    "Time taken by bookmark backend operations",
				Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
			},
			[]string{"operation"},
		),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmarks",
			Help: "Number of bookmarked cities",
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *BookmarkMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.operationDuration.Describe(ch)
	m.count.Describe(ch)
}

// Collect implements the Collector interface
func (m *BookmarkMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.operationDuration.Collect(ch)
	m.count.Collect(ch)
}

// RecordOperation records a bookmark operation outcome and its duration.
func (m *BookmarkMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetCount updates the number of bookmarked cities.
func (m *BookmarkMetrics) SetCount(n int) {
	m.count.Set(float64(n))
}

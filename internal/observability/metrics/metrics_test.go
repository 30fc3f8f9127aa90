package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherMetricsRecordFetch(t *testing.T) {
	t.Parallel()

	m, err := NewWeatherMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordFetch(OpWeatherByCity, 120*time.Millisecond, "")
	m.RecordFetch(OpWeatherByCity, 80*time.Millisecond, "http-request")
	m.RecordFetch(OpForecastByCoords, 50*time.Millisecond, "network")

	assert.InDelta(t, 1, testutil.ToFloat64(m.fetchesTotal.WithLabelValues(OpWeatherByCity, StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fetchesTotal.WithLabelValues(OpWeatherByCity, StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fetchErrorsTotal.WithLabelValues(OpForecastByCoords, "network")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.fetchDuration))
}

func TestWeatherMetricsConditions(t *testing.T) {
	t.Parallel()

	m, err := NewWeatherMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordConditions(21.5, 64, 3.2)
	m.RecordSunFallback(true)

	assert.InDelta(t, 21.5, testutil.ToFloat64(m.temperatureGauge), 0.0001)
	assert.InDelta(t, 64, testutil.ToFloat64(m.humidityGauge), 0.0001)
	assert.InDelta(t, 3.2, testutil.ToFloat64(m.windSpeedGauge), 0.0001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sunFallbackTotal.WithLabelValues(StatusSuccess)), 0)
}

func TestDuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	_, err := NewWeatherMetrics(registry)
	require.NoError(t, err)
	_, err = NewWeatherMetrics(registry)
	require.Error(t, err)
}

func TestBookmarkMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewBookmarkMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordOperation("save", time.Millisecond, nil)
	m.RecordOperation("save", time.Millisecond, errors.New("disk full"))
	m.SetCount(3)

	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues("save", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues("save", StatusError)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.count), 0)
}

func TestHTTPMetricsSSE(t *testing.T) {
	t.Parallel()

	m, err := NewHTTPMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordHTTPRequest("GET", "/", 200, 5*time.Millisecond)
	m.SSEConnectionStarted()
	m.SSEConnectionStarted()
	m.SSEConnectionClosed(2*time.Second, "bogus")
	m.RecordSSEMessageSent("update")

	assert.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sseActiveConnections), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sseTotalConnections.WithLabelValues(SSECloseReasonError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sseMessagesSent.WithLabelValues("update")), 0)
}

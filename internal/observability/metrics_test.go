package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIndependentRegistries(t *testing.T) {
	t.Parallel()

	first, err := NewMetrics()
	require.NoError(t, err)
	second, err := NewMetrics()
	require.NoError(t, err)

	assert.NotSame(t, first.Registry(), second.Registry())
}

func TestHandlerExposesWeatherMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Weather.RecordFetch("weather_by_city", 10*time.Millisecond, "")
	m.Bookmarks.SetCount(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `weather_fetches_total{operation="weather_by_city",status="success"} 1`)
	assert.Contains(t, string(body), "bookmarks 2")
	assert.Contains(t, string(body), "go_goroutines")
}

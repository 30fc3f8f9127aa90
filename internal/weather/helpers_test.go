package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/weatherdash/internal/logger"
)

const (
	testAPIKey   = "0123456789abcdef0123456789abcdef"
	testEndpoint = "https://api.example.test/data/2.5"
)

// Sunrise and sunset for the London fixture, 2024-06-21
var (
	testSunrise = time.Date(2024, 6, 21, 3, 43, 0, 0, time.UTC)
	testSunset  = time.Date(2024, 6, 21, 20, 21, 0, 0, time.UTC)
)

func currentWeatherJSON(t *testing.T, name, condition string, temp float64, sunrise, sunset int64) string {
	t.Helper()
	body := map[string]any{
		"coord":    map[string]any{"lon": -0.1257, "lat": 51.5085},
		"weather":  []map[string]any{{"id": 800, "main": condition, "description": "clear sky", "icon": "01d"}},
		"main":     map[string]any{"temp": temp, "feels_like": temp - 1, "pressure": 1012, "humidity": 64},
		"wind":     map[string]any{"speed": 3.6, "deg": 240},
		"dt":       time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC).Unix(),
		"sys":      map[string]any{"country": "GB", "sunrise": sunrise, "sunset": sunset},
		"timezone": 3600,
		"name":     name,
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return string(data)
}

func forecastJSON(t *testing.T, name string, n int) string {
	t.Helper()
	start := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	list := make([]map[string]any, 0, n)
	for i := range n {
		list = append(list, map[string]any{
			"dt":      start.Add(time.Duration(i) * 3 * time.Hour).Unix(),
			"main":    map[string]any{"temp": float64(i)},
			"weather": []map[string]any{{"main": "Clouds"}},
		})
	}
	data, err := json.Marshal(map[string]any{
		"list": list,
		"city": map[string]any{"name": name, "coord": map[string]any{"lat": 51.5085, "lon": -0.1257}, "timezone": 3600},
	})
	require.NoError(t, err)
	return string(data)
}

// newTestClient returns a client whose transport is a private mock, so
// tests can run in parallel.
func newTestClient(t *testing.T, log logger.Logger, opts ...Option) (*Client, *httpmock.MockTransport) {
	t.Helper()
	if log == nil {
		log = logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
	}
	c := NewClient(Config{APIKey: testAPIKey, Endpoint: testEndpoint + "/"}, append([]Option{WithLogger(log)}, opts...)...)
	mock := httpmock.NewMockTransport()
	c.HTTPClient().HTTPClient().Transport = mock
	t.Cleanup(c.Close)
	return c, mock
}

func cityQuery(city string) map[string]string {
	return map[string]string{"q": city, "units": "metric", "appid": testAPIKey}
}

// syncBuffer is a bytes.Buffer safe for concurrent writes
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeRecorder captures metrics calls
type fakeRecorder struct {
	mu         sync.Mutex
	fetches    []string
	fallbacks  []bool
	conditions int
}

func (r *fakeRecorder) RecordFetch(operation string, _ time.Duration, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, fmt.Sprintf("%s:%s", operation, errorType))
}

func (r *fakeRecorder) RecordSunFallback(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, success)
}

func (r *fakeRecorder) RecordConditions(float64, int, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions++
}

// fakeSun returns fixed times or an error
type fakeSun struct {
	sunrise, sunset time.Time
	err             error
	calls           int
}

func (f *fakeSun) SunriseSunset(_, _ float64, _ time.Time) (time.Time, time.Time, error) {
	f.calls++
	return f.sunrise, f.sunset, f.err
}

func statusResponder(status int) httpmock.Responder {
	return httpmock.NewStringResponder(status, http.StatusText(status))
}

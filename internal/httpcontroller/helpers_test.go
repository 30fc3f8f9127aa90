package httpcontroller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherdash/internal/bookmarks"
	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/dashboard"
	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/observability"
	"github.com/tphakala/weatherdash/internal/weather"
)

const testCSRFToken = "test-csrf-token"

var testNow = time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

// stubSource answers every city except "Nowhere" with clear skies. Like the
// real client it fails once its context is cancelled.
type stubSource struct{}

func (stubSource) snapshot(city string) (*weather.Snapshot, error) {
	if city == "Nowhere" {
		return nil, weather.ErrWeatherFetch
	}
	return &weather.Snapshot{
		City:        city,
		Condition:   "Clear",
		Description: "clear sky",
		Temperature: 20,
		FeelsLike:   19,
		Humidity:    40,
		WindSpeed:   2.5,
		Sunrise:     time.Date(2024, 6, 21, 4, 0, 0, 0, time.UTC),
		Sunset:      time.Date(2024, 6, 21, 21, 0, 0, 0, time.UTC),
	}, nil
}

func (s stubSource) WeatherByCity(ctx context.Context, city string) (*weather.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, weather.ErrWeatherFetch
	}
	return s.snapshot(city)
}

func (s stubSource) WeatherByCoords(_ context.Context, _, _ float64) (*weather.Snapshot, error) {
	return s.snapshot("Coordsville")
}

func (stubSource) forecast(city string) (*weather.Forecast, error) {
	if city == "Nowhere" {
		return nil, weather.ErrForecastFetch
	}
	entries := make([]weather.ForecastEntry, 40)
	for i := range entries {
		entries[i] = weather.ForecastEntry{
			Time:        testNow.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: float64(10 + i),
			Condition:   "Rain",
		}
	}
	return &weather.Forecast{City: city, Entries: entries}, nil
}

func (s stubSource) ForecastByCity(ctx context.Context, city string) (*weather.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, weather.ErrForecastFetch
	}
	return s.forecast(city)
}

func (s stubSource) ForecastByCoords(_ context.Context, _, _ float64) (*weather.Forecast, error) {
	return s.forecast("Coordsville")
}

// failingBackend loads fine but refuses every save
type failingBackend struct{}

func (failingBackend) Load(context.Context) ([]string, error) { return nil, nil }

func (failingBackend) Save(context.Context, []string) error {
	return errors.Newf("disk full").Category(errors.CategoryFileIO).Build()
}

type testEnv struct {
	server     *Server
	controller *dashboard.Controller
	metrics    *observability.Metrics
}

func newTestEnv(t *testing.T, backend bookmarks.Backend) *testEnv {
	t.Helper()

	log := logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
	if backend == nil {
		backend = bookmarks.NewMemoryBackend()
	}
	store := bookmarks.Open(t.Context(), backend, log)
	ctrl := dashboard.New(stubSource{}, store,
		dashboard.WithClock(func() time.Time { return testNow }),
		dashboard.WithLogger(log))
	t.Cleanup(ctrl.Close)

	m, err := observability.NewMetrics()
	require.NoError(t, err)

	settings := &conf.Settings{}
	settings.WebServer.Port = "0"

	s, err := New(settings, ctrl, m, WithLogger(log), WithHeartbeat(50*time.Millisecond))
	require.NoError(t, err)

	return &testEnv{server: s, controller: ctrl, metrics: m}
}

// do serves a request through the full middleware stack
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Echo.ServeHTTP(rec, req)
	return rec
}

// postForm builds a CSRF-valid form submission
func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", testCSRFToken)
	req.AddCookie(&http.Cookie{Name: "csrf", Value: testCSRFToken})
	return req
}

// postJSON is postForm for a client that wants the state back as JSON
func postJSON(path string, values url.Values) *http.Request {
	req := postForm(path, values)
	req.Header.Set("Accept", "application/json")
	return req
}

package dashboard

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/tphakala/weatherdash/internal/bookmarks"
	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/weather"
)

var (
	fixedNow    = time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	fixedClock  = func() time.Time { return fixedNow }
	testSunrise = time.Date(2024, 6, 21, 3, 43, 0, 0, time.UTC)
	testSunset  = time.Date(2024, 6, 21, 20, 21, 0, 0, time.UTC)
)

// fakeSource serves canned data per key (city name or "lat,lon"). Keys in
// gates block until the gate channel is closed; started receives the key
// when a weather request begins.
type fakeSource struct {
	mu      sync.Mutex
	failing map[string]bool
	gates   map[string]chan struct{}
	started chan string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		failing: map[string]bool{},
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (f *fakeSource) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeSource) fail(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[key] = true
}

func (f *fakeSource) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	gate := f.gates[key]
	failing := f.failing[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failing {
		return weather.ErrWeatherFetch
	}
	return nil
}

func snapshot(city string) *weather.Snapshot {
	return &weather.Snapshot{
		City:        city,
		Condition:   "Clear",
		Description: "clear sky",
		Temperature: 20,
		Sunrise:     testSunrise,
		Sunset:      testSunset,
	}
}

func forecast(city string, n int) *weather.Forecast {
	entries := make([]weather.ForecastEntry, n)
	for i := range entries {
		entries[i] = weather.ForecastEntry{
			Time:        fixedNow.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: float64(i),
			Condition:   "Clouds",
		}
	}
	return &weather.Forecast{City: city, Entries: entries}
}

func (f *fakeSource) WeatherByCity(ctx context.Context, city string) (*weather.Snapshot, error) {
	f.started <- city
	if err := f.wait(ctx, city); err != nil {
		return nil, err
	}
	return snapshot(city), nil
}

func (f *fakeSource) ForecastByCity(ctx context.Context, city string) (*weather.Forecast, error) {
	if err := f.wait(ctx, city); err != nil {
		return nil, errors.Join(weather.ErrForecastFetch, err)
	}
	return forecast(city, 40), nil
}

func (f *fakeSource) WeatherByCoords(ctx context.Context, _, _ float64) (*weather.Snapshot, error) {
	f.started <- "coords"
	if err := f.wait(ctx, "coords"); err != nil {
		return nil, err
	}
	return snapshot("Here"), nil
}

func (f *fakeSource) ForecastByCoords(ctx context.Context, _, _ float64) (*weather.Forecast, error) {
	if err := f.wait(ctx, "coords"); err != nil {
		return nil, err
	}
	return forecast("Here", 40), nil
}

func newTestController(src WeatherSource, cities ...string) (*Controller, *bookmarks.MemoryBackend) {
	log := logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
	backend := bookmarks.NewMemoryBackend(cities...)
	store := bookmarks.Open(context.Background(), backend, log)
	return New(src, store, WithClock(fixedClock), WithLogger(log)), backend
}

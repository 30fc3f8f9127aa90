// Package app wires configuration into running components: metrics, the
// weather client with its sun-time fallback, the bookmark store on the
// configured backend and the dashboard controller.
package app

import (
	"context"
	"fmt"

	"github.com/tphakala/weatherdash/internal/bookmarks"
	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/dashboard"
	"github.com/tphakala/weatherdash/internal/datastore"
	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/observability"
	"github.com/tphakala/weatherdash/internal/suncalc"
	"github.com/tphakala/weatherdash/internal/weather"
)

// Services bundles the components for one command run
type Services struct {
	Settings  *conf.Settings
	Metrics   *observability.Metrics
	Weather   *weather.Client
	Bookmarks *bookmarks.Store
	Dashboard *dashboard.Controller

	log     logger.Logger
	closers []func() error
}

// New builds all services from settings. Close must be called to release
// the bookmark backend and stop background fetches.
func New(ctx context.Context, settings *conf.Settings) (*Services, error) {
	log := logger.Global().Module("app")

	m, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("error initializing metrics: %w", err)
	}

	backend, closeBackend, err := OpenBookmarkBackend(&settings.Bookmarks)
	if err != nil {
		return nil, err
	}

	s := &Services{
		Settings: settings,
		Metrics:  m,
		Weather:  NewWeatherClient(&settings.OpenWeather, m),
		log:      log,
	}
	if closeBackend != nil {
		s.closers = append(s.closers, closeBackend)
	}
	s.closers = append(s.closers, func() error {
		s.Weather.Close()
		return nil
	})

	s.Bookmarks = bookmarks.Open(ctx, backend, logger.Global().Module("bookmarks"),
		bookmarks.WithMetrics(m.Bookmarks))
	s.Dashboard = dashboard.New(s.Weather, s.Bookmarks)

	log.Debug("services initialized",
		logger.String("bookmark_backend", settings.Bookmarks.Backend),
		logger.Int("bookmarks", s.Bookmarks.Len()))
	return s, nil
}

// NewWeatherClient creates the OpenWeatherMap client with metrics and the
// astronomical sunrise/sunset fallback.
func NewWeatherClient(settings *conf.OpenWeatherSettings, m *observability.Metrics) *weather.Client {
	opts := []weather.Option{weather.WithSunCalculator(suncalc.NewCalculator())}
	if m != nil {
		opts = append(opts, weather.WithMetrics(m.Weather))
	}
	return weather.NewClient(weather.Config{
		APIKey:    settings.APIKey,
		Endpoint:  settings.Endpoint,
		RateLimit: settings.RateLimit,
		Burst:     settings.Burst,
		Timeout:   settings.Timeout,
	}, opts...)
}

// OpenBookmarkBackend opens the configured storage. The returned close
// func is nil for backends that hold no resources. A database that cannot
// be opened degrades to an unsaved in-memory list, like a corrupt file.
func OpenBookmarkBackend(settings *conf.BookmarkSettings) (bookmarks.Backend, func() error, error) {
	switch settings.Backend {
	case conf.BookmarkBackendFile, "":
		return bookmarks.NewFileBackend(settings.StoragePath()), nil, nil
	case conf.BookmarkBackendSQLite:
		log := logger.Global().Module("datastore")
		path := settings.StoragePath()
		db, err := datastore.OpenSQLite(path, log)
		if err != nil {
			log.Warn("bookmark database unusable, bookmarks will not be saved this run",
				logger.String("path", path),
				logger.Error(err))
			return bookmarks.NewMemoryBackend(), nil, nil
		}
		return db, db.Close, nil
	case conf.BookmarkBackendMemory:
		return bookmarks.NewMemoryBackend(), nil, nil
	default:
		return nil, nil, errors.Newf("unknown bookmark backend %q", settings.Backend).
			Component("app").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// Close stops the dashboard and releases resources in reverse order
func (s *Services) Close() error {
	if s.Dashboard != nil {
		s.Dashboard.Close()
	}

	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.log.Warn("error releasing resources", logger.Error(err))
		return err
	}
	return nil
}

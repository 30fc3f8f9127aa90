// Package dashboard owns the dashboard state: current conditions, the
// forecast, loading and error flags, the display unit and bookmarks. All
// user intents go through the Controller and all rendering reads an
// immutable View.
package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/weather"
)

// User-facing error messages
const (
	MsgSearchFailed   = "Failed to fetch weather data. Please try again."
	MsgLocationFailed = "Failed to fetch weather data for your location."
	MsgLocationDenied = "Location access denied. Please search for a city manually."
)

// ErrSuperseded is returned by Search and Locate when a newer request was
// issued before this one completed; its result was discarded.
var ErrSuperseded = errors.NewStd("request superseded by a newer one")

// WeatherSource fetches conditions and forecasts
type WeatherSource interface {
	WeatherByCity(ctx context.Context, city string) (*weather.Snapshot, error)
	WeatherByCoords(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
	ForecastByCity(ctx context.Context, city string) (*weather.Forecast, error)
	ForecastByCoords(ctx context.Context, lat, lon float64) (*weather.Forecast, error)
}

// BookmarkStore is the subset of bookmarks.Store the controller uses
type BookmarkStore interface {
	Toggle(ctx context.Context, city string) (bool, error)
	List() []string
	Contains(city string) bool
}

// Clock returns the current time
type Clock func() time.Time

// Controller is the single owner of dashboard state. Safe for concurrent use.
type Controller struct {
	source    WeatherSource
	bookmarks BookmarkStore
	clock     Clock
	log       logger.Logger

	// background fetches started by the Async variants
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	current  *weather.Snapshot
	forecast *weather.Forecast
	loading  bool
	errMsg   string
	unit     weather.Unit
	seq      uint64 // last issued fetch sequence number
	revision uint64 // bumped on every visible change
	closed   bool

	subs subscribers
}

// Option customises a Controller
type Option func(*Controller)

// WithClock replaces time.Now
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger replaces the package logger
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller in the empty state with Celsius display
func New(source WeatherSource, store BookmarkStore, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source:    source,
		bookmarks: store,
		clock:     time.Now,
		log:       logger.Global().Module("dashboard"),
		baseCtx:   ctx,
		cancel:    cancel,
		unit:      weather.Celsius,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchFunc performs one joined weather+forecast fetch
type fetchFunc func(ctx context.Context) (*weather.Snapshot, *weather.Forecast, error)

// Search fetches conditions and forecast for city. Blank input is ignored.
// The call blocks until both requests finish; the outcome is also
// reflected in the View.
func (c *Controller) Search(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	return c.run(ctx, "search", MsgSearchFailed,
		func(ctx context.Context) (*weather.Snapshot, *weather.Forecast, error) {
			return c.join(ctx,
				func(ctx context.Context) (*weather.Snapshot, error) { return c.source.WeatherByCity(ctx, city) },
				func(ctx context.Context) (*weather.Forecast, error) { return c.source.ForecastByCity(ctx, city) })
		},
		logger.String("city", city))
}

// Locate fetches conditions and forecast for a coordinate pair
func (c *Controller) Locate(ctx context.Context, lat, lon float64) error {
	return c.run(ctx, "locate", MsgLocationFailed,
		func(ctx context.Context) (*weather.Snapshot, *weather.Forecast, error) {
			return c.join(ctx,
				func(ctx context.Context) (*weather.Snapshot, error) { return c.source.WeatherByCoords(ctx, lat, lon) },
				func(ctx context.Context) (*weather.Forecast, error) { return c.source.ForecastByCoords(ctx, lat, lon) })
		},
		logger.Float64("lat", lat), logger.Float64("lon", lon))
}

// SearchAsync starts Search in the background on the controller's own
// context, so the caller's request lifetime does not cancel it.
func (c *Controller) SearchAsync(city string) {
	c.goBackground(func(ctx context.Context) { _ = c.Search(ctx, city) })
}

// LocateAsync starts Locate in the background
func (c *Controller) LocateAsync(lat, lon float64) {
	c.goBackground(func(ctx context.Context) { _ = c.Locate(ctx, lat, lon) })
}

func (c *Controller) goBackground(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.wg.Go(func() { fn(c.baseCtx) })
}

// join runs both requests concurrently; the first failure cancels the other
func (c *Controller) join(ctx context.Context,
	current func(context.Context) (*weather.Snapshot, error),
	forecast func(context.Context) (*weather.Forecast, error),
) (*weather.Snapshot, *weather.Forecast, error) {
	var (
		snap *weather.Snapshot
		fc   *weather.Forecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = current(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		fc, err = forecast(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return snap, fc, nil
}

// run drives one fetch cycle through Loading into Loaded or Failed. Only the
// most recently issued cycle may apply its result or clear loading.
func (c *Controller) run(ctx context.Context, kind, failureMsg string, fetch fetchFunc, fields ...logger.Field) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	c.errMsg = ""
	c.revision++
	c.mu.Unlock()
	c.subs.notify()

	log := c.log.With(append(fields, logger.String("kind", kind), logger.Uint64("seq", seq))...)
	log.Debug("fetch started")

	start := time.Now()
	snap, fc, err := fetch(ctx)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		log.Debug("discarding stale fetch result", logger.Duration("elapsed", time.Since(start)))
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.errMsg = failureMsg
	} else {
		c.current = snap
		c.forecast = fc
	}
	c.revision++
	c.mu.Unlock()
	c.subs.notify()

	if err != nil {
		log.Warn("fetch failed", logger.Error(err), logger.Duration("elapsed", time.Since(start)))
		return err
	}
	log.Info("fetch completed",
		logger.String("resolved_city", snap.City),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}

// LocationDenied records that the browser refused geolocation. No network
// activity; loading and in-flight requests are untouched.
func (c *Controller) LocationDenied() {
	c.mu.Lock()
	c.errMsg = MsgLocationDenied
	c.revision++
	c.mu.Unlock()
	c.subs.notify()
	c.log.Info("location access denied")
}

// ToggleUnit switches between Celsius and Fahrenheit display
func (c *Controller) ToggleUnit() weather.Unit {
	c.mu.Lock()
	c.unit = c.unit.Toggle()
	unit := c.unit
	c.revision++
	c.mu.Unlock()
	c.subs.notify()
	return unit
}

// ToggleBookmark adds or removes city from the bookmarks
func (c *Controller) ToggleBookmark(ctx context.Context, city string) (bool, error) {
	added, err := c.bookmarks.Toggle(ctx, city)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	c.revision++
	c.mu.Unlock()
	c.subs.notify()
	return added, nil
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce: a slow reader sees at least one signal after the
// latest change. The returned func unsubscribes; the channel is closed on
// unsubscribe or Close.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	return c.subs.add(closed)
}

// Close cancels background fetches, waits for them and closes all
// subscriptions. Further async requests are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.subs.closeAll()
}

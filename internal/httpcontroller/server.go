// Package httpcontroller serves the weather dashboard over HTTP: server
// rendered HTML pages, form endpoints for user intents, a JSON state API and
// a server-sent event stream that tells open pages to refresh.
package httpcontroller

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/dashboard"
	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/observability"
	"github.com/tphakala/weatherdash/internal/ui"
	"github.com/tphakala/weatherdash/internal/weather"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	sseHeartbeat      = 30 * time.Second
)

// Dashboard is the controller surface the web layer drives
type Dashboard interface {
	View() dashboard.View
	Search(ctx context.Context, city string) error
	LocateAsync(lat, lon float64)
	LocationDenied()
	ToggleUnit() weather.Unit
	ToggleBookmark(ctx context.Context, city string) (bool, error)
	Subscribe() (<-chan struct{}, func())
}

// Server encapsulates the Echo server and its dependencies
type Server struct {
	Echo      *echo.Echo
	Settings  *conf.Settings
	Dashboard Dashboard
	Metrics   *observability.Metrics

	renderer  *ui.Renderer
	log       logger.Logger
	heartbeat time.Duration
}

// Option customises a Server
type Option func(*Server)

// WithLogger replaces the module logger
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithHeartbeat sets the SSE keep-alive interval
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) { s.heartbeat = d }
}

// New creates the HTTP server and registers middleware and routes
func New(settings *conf.Settings, dash Dashboard, metrics *observability.Metrics, opts ...Option) (*Server, error) {
	renderer, err := ui.NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Echo:      echo.New(),
		Settings:  settings,
		Dashboard: dash,
		Metrics:   metrics,
		renderer:  renderer,
		log:       logger.Global().Module("http"),
		heartbeat: sseHeartbeat,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger = logger.NewEchoLoggerAdapter(s.log)
	s.Echo.Renderer = &TemplateRenderer{renderer: renderer, log: s.log}
	s.Echo.HTTPErrorHandler = s.errorHandler

	s.configureMiddleware()
	s.initRoutes()
	return s, nil
}

// Address returns the configured listen address
func (s *Server) Address() string {
	return net.JoinHostPort(s.Settings.WebServer.Host, s.Settings.WebServer.Port)
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.Echo.Server.ReadHeaderTimeout = readHeaderTimeout
	// Requests inherit ctx so open event streams end when it is cancelled
	s.Echo.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server starting", logger.String("address", s.Address()))
		errChan <- s.Echo.Start(s.Address())
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package httpcontroller

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
)

// CSRFContextKey is the key used to store the CSRF token in the context
const CSRFContextKey = "weatherdash-csrf"

// configureMiddleware sets up middleware for the server
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.RequestIDMiddleware())
	s.Echo.Use(s.RequestLoggerMiddleware())
	s.Echo.Use(s.MetricsMiddleware())
	s.Echo.Use(s.CSRFMiddleware())
	s.Echo.Use(s.GzipMiddleware())
	s.Echo.Use(s.CacheControlMiddleware())
}

// isStreamingPath reports paths that must not be buffered or compressed
func isStreamingPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/events")
}

// RequestIDMiddleware assigns each request an ID and carries it in the
// request context so log lines can be correlated.
func (s *Server) RequestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()[:8]
		},
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), id)))
		},
	})
}

// RequestLoggerMiddleware logs one line per request, with the level chosen
// by status code.
func (s *Server) RequestLoggerMiddleware() echo.MiddlewareFunc {
	httpLogger := s.log.Module("request")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("remote_ip", v.RemoteIP),
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
			}
			if v.RequestID != "" {
				fields = append(fields, logger.String("request_id", v.RequestID))
			}
			if v.Error != nil {
				fields = append(fields, logger.Error(v.Error))
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				httpLogger.Error("request failed", fields...)
			case v.Status >= http.StatusBadRequest:
				httpLogger.Warn("request rejected", fields...)
			default:
				httpLogger.Debug("request handled", fields...)
			}
			return nil
		},
	})
}

// MetricsMiddleware records request counts and latency per route
func (s *Server) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.Metrics == nil || isStreamingPath(c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			// Route templates keep label cardinality bounded
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			s.Metrics.HTTP.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}

// CSRFMiddleware configures CSRF protection for the form endpoints
func (s *Server) CSRFMiddleware() echo.MiddlewareFunc {
	csrfLogger := s.log.Module("csrf")

	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		CookieMaxAge:   86400,
		TokenLength:    32,
		ContextKey:     CSRFContextKey,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/assets/") ||
				isStreamingPath(path) ||
				path == "/metrics" ||
				path == "/health"
		},
		ErrorHandler: func(err error, c echo.Context) error {
			csrfLogger.Warn("CSRF token validation failed",
				logger.String("method", c.Request().Method),
				logger.String("path", c.Request().URL.Path),
				logger.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				logger.Error(err))
			return echo.NewHTTPError(http.StatusForbidden, "Invalid CSRF token")
		},
	})
}

// GzipMiddleware configures Gzip compression, skipping the event stream
func (s *Server) GzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
		Skipper: func(c echo.Context) bool {
			return isStreamingPath(c.Request().URL.Path)
		},
	})
}

// CacheControlMiddleware sets cache headers by path
func (s *Server) CacheControlMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			switch {
			case strings.HasPrefix(path, "/assets/"):
				c.Response().Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
			default:
				c.Response().Header().Set("Cache-Control", "no-store")
			}
			return next(c)
		}
	}
}

package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/ui"
)

// initRoutes registers all HTTP routes
func (s *Server) initRoutes() {
	// Pages and partials
	s.Echo.GET("/", s.handleIndex)
	s.Echo.GET("/partials/dashboard", s.handleDashboardPartial)
	s.Echo.StaticFS("/assets", ui.StaticFS())

	// User intents, submitted as forms or by the page script
	s.Echo.POST("/search", s.handleSearch)
	s.Echo.POST("/location", s.handleLocation)
	s.Echo.POST("/location/denied", s.handleLocationDenied)
	s.Echo.POST("/unit/toggle", s.handleToggleUnit)
	s.Echo.POST("/bookmarks/toggle", s.handleToggleBookmark)

	// JSON API
	api := s.Echo.Group("/api/v1")
	api.GET("/state", s.handleState)
	api.GET("/events", s.handleEvents)

	s.Echo.GET("/health", s.handleHealth)
	if s.Metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}
}

// errorHandler logs server errors and falls back to Echo's default response
func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= http.StatusInternalServerError && !c.Response().Committed {
		s.log.Error("request handler error",
			logger.String("path", c.Request().URL.Path),
			logger.Error(err))
	}
	s.Echo.DefaultHTTPErrorHandler(err, c)
}

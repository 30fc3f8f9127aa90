package httpcontroller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherdash/internal/dashboard"
	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/ui"
)

// page builds the presentation model for the current request
func (s *Server) page(c echo.Context) ui.Page {
	v := s.Dashboard.View()
	p := ui.NewPage(&v)

	if token, ok := c.Get(CSRFContextKey).(string); ok {
		p.CSRFToken = token
	}
	if s.Settings != nil && s.Settings.Main.Name != "" {
		p.Title = s.Settings.Main.Name
	}
	// Only a pristine dashboard asks the browser for its position
	p.AskLocation = v.Weather == nil && !v.Loading && v.Error == ""
	return p
}

// wantsJSON reports whether the client asked for a JSON response rather
// than a redirect back to the page.
func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// respond finishes an intent: JSON clients get the new state, browsers
// submitting forms are redirected to the dashboard.
func (s *Server) respond(c echo.Context, jsonStatus int) error {
	if wantsJSON(c) {
		return c.JSON(jsonStatus, s.Dashboard.View())
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) requestLogger(c echo.Context) logger.Logger {
	return s.log.WithContext(c.Request().Context())
}

// handleIndex renders the full dashboard page
// API: GET /
func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index", s.page(c))
}

// handleDashboardPartial renders the dashboard body for in-place refresh.
// The background travels in a header because it styles the outer element.
// API: GET /partials/dashboard
func (s *Server) handleDashboardPartial(c echo.Context) error {
	p := s.page(c)
	c.Response().Header().Set("X-Background", p.Background.CSS())
	return c.Render(http.StatusOK, "dashboard", p)
}

// handleSearch fetches weather for the submitted city and waits for it.
// A client that disconnects does not abort the fetch.
// API: POST /search
func (s *Server) handleSearch(c echo.Context) error {
	city := c.FormValue("city")

	err := s.Dashboard.Search(context.WithoutCancel(c.Request().Context()), city)
	switch {
	case err == nil:
	case errors.Is(err, dashboard.ErrSuperseded):
		s.requestLogger(c).Debug("search superseded by a newer request", logger.String("city", city))
	default:
		// The failure message is already part of the dashboard state
		s.requestLogger(c).Debug("search failed", logger.String("city", city), logger.Error(err))
	}
	return s.respond(c, http.StatusOK)
}

// handleLocation starts a coordinate lookup reported by the browser.
// The fetch runs in the background; open pages refresh over SSE.
// API: POST /location
func (s *Server) handleLocation(c echo.Context) error {
	lat, err := parseCoordinate(c.FormValue("lat"), 90)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid latitude")
	}
	lon, err := parseCoordinate(c.FormValue("lon"), 180)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid longitude")
	}

	s.Dashboard.LocateAsync(lat, lon)
	return s.respond(c, http.StatusAccepted)
}

func parseCoordinate(raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if v < -limit || v > limit {
		return 0, errors.Newf("coordinate %v out of range ±%v", v, limit).
			Component("httpcontroller").
			Category(errors.CategoryValidation).
			Build()
	}
	return v, nil
}

// handleLocationDenied records that the browser refused geolocation
// API: POST /location/denied
func (s *Server) handleLocationDenied(c echo.Context) error {
	s.Dashboard.LocationDenied()
	return s.respond(c, http.StatusOK)
}

// handleToggleUnit switches between Celsius and Fahrenheit
// API: POST /unit/toggle
func (s *Server) handleToggleUnit(c echo.Context) error {
	unit := s.Dashboard.ToggleUnit()
	s.requestLogger(c).Debug("temperature unit toggled", logger.String("unit", unit.String()))
	return s.respond(c, http.StatusOK)
}

// handleToggleBookmark adds or removes a bookmarked city
// API: POST /bookmarks/toggle
func (s *Server) handleToggleBookmark(c echo.Context) error {
	city := c.FormValue("city")

	added, err := s.Dashboard.ToggleBookmark(c.Request().Context(), city)
	if err != nil {
		if errors.IsCategory(err, errors.CategoryValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "City name is required")
		}
		s.requestLogger(c).Error("failed to toggle bookmark",
			logger.String("city", city),
			logger.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save bookmarks")
	}

	s.requestLogger(c).Debug("bookmark toggled",
		logger.String("city", city),
		logger.Bool("added", added))
	return s.respond(c, http.StatusOK)
}

// handleState returns the dashboard view as JSON
// API: GET /api/v1/state
func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Dashboard.View())
}

// handleHealth is a liveness probe
// API: GET /health
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

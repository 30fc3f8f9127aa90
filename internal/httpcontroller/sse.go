package httpcontroller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/observability/metrics"
)

// SSE event names
const (
	eventReady  = "ready"
	eventUpdate = "update"
)

type stateEvent struct {
	Revision uint64 `json:"revision"`
}

// handleEvents streams dashboard change notifications. Each "update" event
// carries the new revision; the page then fetches the rendered partial.
// API: GET /api/v1/events
func (s *Server) handleEvents(c echo.Context) error {
	// Subscribe before the first write so no change after "ready" is missed
	updates, unsubscribe := s.Dashboard.Subscribe()
	defer unsubscribe()

	log := s.requestLogger(c).With(logger.String("remote_addr", c.RealIP()))
	log.Debug("SSE client connected")

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	start := time.Now()
	reason := metrics.SSECloseReasonClosed
	if s.Metrics != nil {
		s.Metrics.HTTP.SSEConnectionStarted()
		defer func() { s.Metrics.HTTP.SSEConnectionClosed(time.Since(start), reason) }()
	}

	if err := s.sendEvent(c, eventReady); err != nil {
		reason = metrics.SSECloseReasonError
		return nil
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("SSE client disconnected", logger.Duration("duration", time.Since(start)))
			return nil
		case _, ok := <-updates:
			if !ok {
				reason = metrics.SSECloseReasonCanceled
				log.Debug("SSE stream closed by dashboard shutdown")
				return nil
			}
			if err := s.sendEvent(c, eventUpdate); err != nil {
				reason = metrics.SSECloseReasonError
				log.Debug("SSE write failed", logger.Error(err))
				return nil
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				reason = metrics.SSECloseReasonError
				log.Debug("SSE heartbeat failed", logger.Error(err))
				return nil
			}
			w.Flush()
		}
	}
}

// sendEvent writes one named event carrying the current revision
func (s *Server) sendEvent(c echo.Context, name string) error {
	data, err := json.Marshal(stateEvent{Revision: s.Dashboard.View().Revision})
	if err != nil {
		return err
	}

	w := c.Response()
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	w.Flush()

	if s.Metrics != nil {
		s.Metrics.HTTP.RecordSSEMessageSent(name)
	}
	return nil
}

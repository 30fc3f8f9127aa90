package httpcontroller

import (
	"bytes"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/ui"
)

// TemplateRenderer adapts the UI renderer to Echo
type TemplateRenderer struct {
	renderer *ui.Renderer
	log      logger.Logger
}

// Render renders a template with the given data. Output is buffered so a
// failing template never produces a half-written page.
func (t *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	var buf bytes.Buffer
	if err := t.renderer.Render(&buf, name, data); err != nil {
		t.log.Error("error executing template",
			logger.String("template", name),
			logger.Error(err))
		return err
	}

	_, err := buf.WriteTo(w)
	if err != nil {
		t.log.Debug("error writing template result", logger.Error(err))
	}
	return err
}

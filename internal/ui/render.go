package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	texttemplate "text/template"

	"github.com/tphakala/weatherdash/internal/dashboard"
)

//go:embed templates/*.html templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the embedded HTML components. Safe for concurrent use.
type Renderer struct {
	html *template.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	html, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}
	text, err := texttemplate.New("").Funcs(texttemplate.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Render executes the named HTML template, e.g. "index" or "dashboard"
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.html.ExecuteTemplate(w, name, data)
}

// RenderText writes the view as plain text for terminals
func (r *Renderer) RenderText(w io.Writer, v *dashboard.View) error {
	return r.text.ExecuteTemplate(w, "text", NewPage(v))
}

// RenderText is a convenience wrapper that parses the templates on each call
func RenderText(w io.Writer, v *dashboard.View) error {
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	return r.RenderText(w, v)
}

// StaticFS returns the embedded stylesheet and script assets
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static is embedded at build time, Sub cannot fail for it
		panic(err)
	}
	return sub
}

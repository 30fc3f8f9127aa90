// Package ui turns dashboard views into presentation models and renders
// them as HTML components for the browser or as plain text for the CLI.
package ui

import (
	"html/template"
	"strconv"
	"time"

	"github.com/tphakala/weatherdash/internal/dashboard"
	"github.com/tphakala/weatherdash/internal/weather"
)

// Title is the page heading
const Title = "Weather Forecast"

const (
	clockLayout   = "15:04"
	weekdayLayout = "Mon"
)

// Page is the presentation model for the whole dashboard
type Page struct {
	Title        string
	CurrentCity  string // empty until conditions are loaded
	IsBookmarked bool
	Bookmarks    []string
	Loading      bool
	Error        string
	Weather      *WeatherCard
	Forecast     []ForecastCard
	Background   weather.Gradient
	Unit         weather.Unit
	Revision     uint64
	CSRFToken    string
	// BackgroundStyle is the gradient as a trusted inline style
	BackgroundStyle template.CSS
	// AskLocation makes the page request browser geolocation once
	AskLocation bool
}

// WeatherCard presents current conditions
type WeatherCard struct {
	City        string
	Description string
	Icon        template.HTML
	Glyph       string
	Temperature string
	FeelsLike   string
	UnitSymbol  string
	Humidity    int
	WindSpeed   string
	Sunrise     string
	Sunset      string
}

// ForecastCard presents one day of the forecast strip
type ForecastCard struct {
	Day         string
	Condition   string
	Icon        template.HTML
	Glyph       string
	Temperature string
}

// NewPage builds the presentation model from a dashboard view
func NewPage(v *dashboard.View) Page {
	p := Page{
		Title:      Title,
		Bookmarks:  v.Bookmarks,
		Loading:    v.Loading,
		Error:      v.Error,
		Background: v.Background,
		Unit:       v.Unit,
		Revision:   v.Revision,
		Forecast:   make([]ForecastCard, 0, len(v.Forecast)),
		// Gradient stops are fixed hex colours, never user input
		BackgroundStyle: template.CSS("background: " + v.Background.CSS()), //nolint:gosec // G203: trusted constant
	}

	if s := v.Weather; s != nil {
		p.CurrentCity = s.City
		p.IsBookmarked = v.IsBookmarked
		p.Weather = newWeatherCard(s, v.Unit, v.IsNight)
	}

	loc := time.UTC
	if v.ForecastOffset != 0 {
		loc = time.FixedZone("", v.ForecastOffset)
	}
	for _, entry := range v.Forecast {
		// Forecast icons always use the day variant
		icon := weather.SelectIcon(entry.Condition, false)
		p.Forecast = append(p.Forecast, ForecastCard{
			Day:         entry.Time.In(loc).Format(weekdayLayout),
			Condition:   entry.Condition,
			Icon:        icon.SVG(),
			Glyph:       icon.Glyph(),
			Temperature: weather.FormatTemperature(entry.Temperature, v.Unit),
		})
	}
	return p
}

func newWeatherCard(s *weather.Snapshot, unit weather.Unit, isNight bool) *WeatherCard {
	icon := weather.SelectIcon(s.Condition, isNight)
	loc := s.Location()
	return &WeatherCard{
		City:        s.City,
		Description: s.Description,
		Icon:        icon.SVG(),
		Glyph:       icon.Glyph(),
		Temperature: weather.FormatTemperature(s.Temperature, unit),
		FeelsLike:   weather.FormatTemperature(s.FeelsLike, unit),
		UnitSymbol:  unit.Symbol(),
		Humidity:    s.Humidity,
		WindSpeed:   strconv.FormatFloat(s.WindSpeed, 'f', -1, 64),
		Sunrise:     formatClock(s.Sunrise, loc),
		Sunset:      formatClock(s.Sunset, loc),
	}
}

func formatClock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.In(loc).Format(clockLayout)
}

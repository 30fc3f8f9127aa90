package dashboard

import (
	"time"

	"github.com/tphakala/weatherdash/internal/weather"
)

// View is an immutable snapshot of dashboard state plus values derived at
// the controller clock's current time.
type View struct {
	Weather      *weather.Snapshot       `json:"weather"`
	Forecast     []weather.ForecastEntry `json:"forecast"`
	Loading      bool                    `json:"loading"`
	Error        string                  `json:"error,omitempty"`
	Unit         weather.Unit            `json:"unit"`
	Bookmarks    []string                `json:"bookmarks"`
	IsBookmarked bool                    `json:"isBookmarked"`
	IsNight      bool                    `json:"isNight"`
	Background   weather.Gradient        `json:"background"`
	Now          time.Time               `json:"now"`
	// ForecastOffset is the forecast location's UTC offset in seconds
	ForecastOffset int    `json:"forecastOffset"`
	Revision       uint64 `json:"revision"`
}

// HasWeather reports whether any conditions have been loaded
func (v *View) HasWeather() bool {
	return v.Weather != nil
}

// View returns the current state. Snapshot pointers are shared but never
// mutated after a fetch completes.
func (c *Controller) View() View {
	now := c.clock()

	c.mu.Lock()
	current := c.current
	forecast := c.forecast
	v := View{
		Weather:  current,
		Loading:  c.loading,
		Error:    c.errMsg,
		Unit:     c.unit,
		Now:      now,
		Revision: c.revision,
	}
	c.mu.Unlock()

	v.Forecast = []weather.ForecastEntry{}
	if forecast != nil {
		v.Forecast = weather.DailyForecast(forecast.Entries)
		v.ForecastOffset = forecast.TimezoneOffset
	}

	v.Bookmarks = c.bookmarks.List()
	if current != nil {
		v.IsBookmarked = c.bookmarks.Contains(current.City)
		v.IsNight = weather.IsNight(now, current.Sunrise, current.Sunset)
	}
	v.Background = weather.BackgroundGradient(current, now)
	return v
}

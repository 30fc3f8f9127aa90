// Package weather fetches current conditions and forecasts from
// OpenWeatherMap and derives the display values the dashboard needs:
// converted temperatures, condition icons, day/night state and the page
// background gradient.
package weather

import "time"

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Snapshot holds the current conditions for one location. Temperatures are
// always Celsius and wind speed is meters per second.
type Snapshot struct {
	City        string      `json:"city"`
	Country     string      `json:"country,omitempty"`
	Condition   string      `json:"condition"` // condition category, e.g. "Clear", "Rain"
	Description string      `json:"description"`
	Temperature float64     `json:"temperature"`
	FeelsLike   float64     `json:"feelsLike"`
	Humidity    int         `json:"humidity"`
	WindSpeed   float64     `json:"windSpeed"`
	Sunrise     time.Time   `json:"sunrise"`
	Sunset      time.Time   `json:"sunset"`
	ObservedAt  time.Time   `json:"observedAt"`
	Coordinates Coordinates `json:"coordinates"`
	// TimezoneOffset is the location's shift from UTC in seconds
	TimezoneOffset int `json:"timezoneOffset"`
}

// Location returns a fixed zone matching the snapshot's UTC offset.
func (s *Snapshot) Location() *time.Location {
	return fixedZone(s.TimezoneOffset)
}

// ForecastEntry is one 3-hourly forecast sample
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
}

// Forecast is an ordered series of forecast samples for one location
type Forecast struct {
	City           string          `json:"city"`
	TimezoneOffset int             `json:"timezoneOffset"`
	Entries        []ForecastEntry `json:"entries"`
}

// Location returns a fixed zone matching the forecast's UTC offset.
func (f *Forecast) Location() *time.Location {
	return fixedZone(f.TimezoneOffset)
}

func fixedZone(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone("", offset)
}

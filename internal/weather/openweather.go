package weather

import "time"

// OpenWeatherResponse is the subset of the current weather payload we consume
type OpenWeatherResponse struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

// OpenWeatherForecastResponse is the subset of the 5 day / 3 hour forecast
// payload we consume
type OpenWeatherForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Timezone int `json:"timezone"`
	} `json:"city"`
}

// toSnapshot converts the payload; callers must check len(r.Weather) first.
func (r *OpenWeatherResponse) toSnapshot() *Snapshot {
	return &Snapshot{
		City:           r.Name,
		Country:        r.Sys.Country,
		Condition:      r.Weather[0].Main,
		Description:    r.Weather[0].Description,
		Temperature:    r.Main.Temp,
		FeelsLike:      r.Main.FeelsLike,
		Humidity:       r.Main.Humidity,
		WindSpeed:      r.Wind.Speed,
		Sunrise:        unixTime(r.Sys.Sunrise),
		Sunset:         unixTime(r.Sys.Sunset),
		ObservedAt:     unixTime(r.Dt),
		Coordinates:    Coordinates{Lat: r.Coord.Lat, Lon: r.Coord.Lon},
		TimezoneOffset: r.Timezone,
	}
}

func (r *OpenWeatherForecastResponse) toForecast() *Forecast {
	f := &Forecast{
		City:           r.City.Name,
		TimezoneOffset: r.City.Timezone,
		Entries:        make([]ForecastEntry, 0, len(r.List)),
	}
	for i := range r.List {
		item := &r.List[i]
		entry := ForecastEntry{
			Time:        unixTime(item.Dt),
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
		}
		f.Entries = append(f.Entries, entry)
	}
	return f
}

// unixTime maps a zero timestamp to the zero time.Time
func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

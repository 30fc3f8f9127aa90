package weather

const (
	// samplesPerDay is the number of 3-hourly forecast samples in 24 hours
	samplesPerDay = 8
	// MaxForecastDays caps the daily forecast
	MaxForecastDays = 5
)

// DailyForecast picks one sample per day from a 3-hourly series: indices
// 0, 8, 16 and so on, truncated to MaxForecastDays. The result is a new
// slice; the input is not modified.
func DailyForecast(entries []ForecastEntry) []ForecastEntry {
	days := make([]ForecastEntry, 0, MaxForecastDays)
	for i := 0; i < len(entries) && len(days) < MaxForecastDays; i += samplesPerDay {
		days = append(days, entries[i])
	}
	return days
}

// Package metrics provides constants used across metric definitions.
package metrics

// Status label values shared by all counters.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation label values for weather fetches.
const (
	// OpWeatherByCity is a current-conditions lookup by city name.
	OpWeatherByCity = "weather_by_city"
	// OpWeatherByCoords is a current-conditions lookup by coordinates.
	OpWeatherByCoords = "weather_by_coords"
	// OpForecastByCity is a forecast lookup by city name.
	OpForecastByCity = "forecast_by_city"
	// OpForecastByCoords is a forecast lookup by coordinates.
	OpForecastByCoords = "forecast_by_coords"
)

// Histogram bucket parameters.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart100ms is the starting bucket for 100ms histograms (100ms to ~100s range).
	BucketStart100ms = 0.1

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2

	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)

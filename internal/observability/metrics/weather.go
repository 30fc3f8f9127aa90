// Package metrics provides weather service metrics for observability
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WeatherMetrics contains Prometheus metrics for weather service operations
type WeatherMetrics struct {
	registry *prometheus.Registry

	// Upstream fetch metrics
	fetchesTotal     *prometheus.CounterVec
	fetchErrorsTotal *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec

	// Sun time fallback usage
	sunFallbackTotal *prometheus.CounterVec

	// Last observed conditions
	temperatureGauge prometheus.Gauge
	humidityGauge    prometheus.Gauge
	windSpeedGauge   prometheus.Gauge
}

// NewWeatherMetrics creates and registers new weather metrics
func NewWeatherMetrics(registry *prometheus.Registry) (*WeatherMetrics, error) {
	m := &WeatherMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *WeatherMetrics) initMetrics() {
	m.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetches_total",
			Help: "Total number of weather API fetch operations",
		},
		[]string{"operation", "status"},
	)

	m.fetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_errors_total",
			Help: "Total number of weather API fetch errors",
		},
		[]string{"operation", "error_type"},
	)

	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "weather_fetch_duration_seconds",
			Help: "Time taken to fetch weather data",
			// 100ms to ~50s
			Buckets: prometheus.ExponentialBuckets(BucketStart100ms, BucketFactor2, BucketCount10),
		},
		[]string{"operation"},
	)

	m.sunFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_sun_fallback_total",
			Help: "Times sunrise and sunset were computed locally instead of taken from the API",
		},
		[]string{"status"},
	)

	m.temperatureGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_temperature_celsius",
		Help: "Most recently fetched temperature in Celsius",
	})

	m.humidityGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_humidity_percentage",
		Help: "Most recently fetched relative humidity",
	})

	m.windSpeedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_wind_speed_mps",
		Help: "Most recently fetched wind speed in meters per second",
	})
}

func (m *WeatherMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.fetchesTotal,
		m.fetchErrorsTotal,
		m.fetchDuration,
		m.sunFallbackTotal,
		m.temperatureGauge,
		m.humidityGauge,
		m.windSpeedGauge,
	}
}

// Describe implements the Collector interface
func (m *WeatherMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *WeatherMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// RecordFetch records one upstream request. errorType is ignored on success.
func (m *WeatherMetrics) RecordFetch(operation string, duration time.Duration, errorType string) {
	m.fetchDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if errorType == "" {
		m.fetchesTotal.WithLabelValues(operation, StatusSuccess).Inc()
		return
	}
	m.fetchesTotal.WithLabelValues(operation, StatusError).Inc()
	m.fetchErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordSunFallback records a local sunrise/sunset computation.
func (m *WeatherMetrics) RecordSunFallback(success bool) {
	status := StatusSuccess
	if !success {
		status = StatusError
	}
	m.sunFallbackTotal.WithLabelValues(status).Inc()
}

// RecordConditions updates the gauges for the latest observation.
func (m *WeatherMetrics) RecordConditions(temperature float64, humidity int, windSpeed float64) {
	m.temperatureGauge.Set(temperature)
	m.humidityGauge.Set(float64(humidity))
	m.windSpeedGauge.Set(windSpeed)
}

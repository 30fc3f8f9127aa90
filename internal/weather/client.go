package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/httpclient"
	"github.com/tphakala/weatherdash/internal/logger"
	"github.com/tphakala/weatherdash/internal/observability/metrics"
)

const (
	// DefaultEndpoint is the OpenWeatherMap 2.5 API base
	DefaultEndpoint = "https://api.openweathermap.org/data/2.5"
	// RequestTimeout applies when the caller's context has no deadline
	RequestTimeout = 10 * time.Second
	// UserAgent identifies the dashboard to the API
	UserAgent = "weatherdash (+https://github.com/tphakala/weatherdash)"

	providerName = "openweathermap"
	apiKeyParam  = "appid"
)

// Generic fetch failures. The underlying cause is logged, never returned.
var (
	ErrWeatherFetch  = errors.NewStd("failed to fetch weather data")
	ErrForecastFetch = errors.NewStd("failed to fetch forecast data")
)

// Recorder receives fetch observations
type Recorder interface {
	RecordFetch(operation string, duration time.Duration, errorType string)
	RecordSunFallback(success bool)
	RecordConditions(temperature float64, humidity int, windSpeed float64)
}

// SunCalculator computes sunrise and sunset when the API omits them
type SunCalculator interface {
	SunriseSunset(latitude, longitude float64, date time.Time) (sunrise, sunset time.Time, err error)
}

// Config holds the API client settings
type Config struct {
	APIKey    string
	Endpoint  string
	RateLimit float64 // requests per second, 0 disables
	Burst     int
	Timeout   time.Duration
}

// Client talks to the OpenWeatherMap current weather and forecast APIs.
// Safe for concurrent use.
type Client struct {
	http     *httpclient.Client
	endpoint string
	apiKey   string
	sun      SunCalculator
	metrics  Recorder
	log      logger.Logger
}

// Option customises a Client
type Option func(*Client)

// WithMetrics records fetch metrics to r
func WithMetrics(r Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

// WithSunCalculator enables the sunrise/sunset fallback
func WithSunCalculator(s SunCalculator) Option {
	return func(c *Client) { c.sun = s }
}

// WithLogger replaces the package logger
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates an API client
func NewClient(cfg Config, opts ...Option) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}

	c := &Client{
		http: httpclient.New(&httpclient.Config{
			DefaultTimeout: timeout,
			UserAgent:      UserAgent,
			RateLimit:      cfg.RateLimit,
			Burst:          cfg.Burst,
		}),
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		log:      logger.Global().Module("weather"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetBeforeRequestHook(c.beforeRequest)
	c.http.SetAfterResponseHook(c.afterResponse)

	if c.apiKey == "" {
		c.log.Warn("OpenWeatherMap API key is not set, requests will be rejected")
	}
	return c
}

// HTTPClient exposes the transport client, e.g. for httpmock
func (c *Client) HTTPClient() *httpclient.Client {
	return c.http
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}

// WeatherByCity fetches current conditions for a city name
func (c *Client) WeatherByCity(ctx context.Context, city string) (*Snapshot, error) {
	return c.currentWeather(ctx, metrics.OpWeatherByCity, url.Values{"q": {city}})
}

// WeatherByCoords fetches current conditions for a coordinate pair
func (c *Client) WeatherByCoords(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	return c.currentWeather(ctx, metrics.OpWeatherByCoords, coordParams(lat, lon))
}

// ForecastByCity fetches the 3-hourly forecast for a city name
func (c *Client) ForecastByCity(ctx context.Context, city string) (*Forecast, error) {
	return c.forecast(ctx, metrics.OpForecastByCity, url.Values{"q": {city}})
}

// ForecastByCoords fetches the 3-hourly forecast for a coordinate pair
func (c *Client) ForecastByCoords(ctx context.Context, lat, lon float64) (*Forecast, error) {
	return c.forecast(ctx, metrics.OpForecastByCoords, coordParams(lat, lon))
}

func coordParams(lat, lon float64) url.Values {
	return url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}

func (c *Client) currentWeather(ctx context.Context, op string, params url.Values) (snap *Snapshot, err error) {
	start := time.Now()
	defer func() { c.observe(op, start, err) }()

	var resp OpenWeatherResponse
	if cause := c.get(ctx, "weather", params, &resp); cause != nil {
		return nil, c.fail(ErrWeatherFetch, op, cause)
	}
	if len(resp.Weather) == 0 {
		return nil, c.fail(ErrWeatherFetch, op,
			errors.Newf("response for %q contains no weather conditions", resp.Name).
				Component("weather").
				Category(errors.CategoryValidation).
				Build())
	}

	snap = resp.toSnapshot()
	c.fillSunTimes(snap)
	if c.metrics != nil {
		c.metrics.RecordConditions(snap.Temperature, snap.Humidity, snap.WindSpeed)
	}

	c.log.Debug("fetched current weather",
		logger.String("operation", op),
		logger.String("city", snap.City),
		logger.String("condition", snap.Condition),
		logger.Float64("temperature", snap.Temperature),
		logger.Time("observed_at", snap.ObservedAt))
	return snap, nil
}

func (c *Client) forecast(ctx context.Context, op string, params url.Values) (f *Forecast, err error) {
	start := time.Now()
	defer func() { c.observe(op, start, err) }()

	var resp OpenWeatherForecastResponse
	if cause := c.get(ctx, "forecast", params, &resp); cause != nil {
		return nil, c.fail(ErrForecastFetch, op, cause)
	}

	f = resp.toForecast()
	c.log.Debug("fetched forecast",
		logger.String("operation", op),
		logger.String("city", f.City),
		logger.Int("entries", len(f.Entries)))
	return f, nil
}

// get issues GET {endpoint}/{resource}?{params}&units=metric&appid={key}
func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("units", "metric")
	params.Set(apiKeyParam, c.apiKey)
	requestURL := c.endpoint + "/" + resource + "?" + params.Encode()
	return c.http.GetJSON(ctx, requestURL, out)
}

func (c *Client) beforeRequest(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	c.log.Trace("requesting weather API", logger.String("url", maskAPIKey(req.URL.String(), apiKeyParam)))
}

// afterResponse traces each round trip; failures are reported by fail
func (c *Client) afterResponse(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
	if err != nil {
		c.log.Trace("weather API round trip failed",
			logger.String("url", maskAPIKey(req.URL.String(), apiKeyParam)),
			logger.Duration("elapsed", elapsed),
			logger.String("cause", errors.RedactSecrets(err.Error())))
		return
	}
	c.log.Trace("weather API responded",
		logger.String("url", maskAPIKey(req.URL.String(), apiKeyParam)),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", elapsed))
}

// fail logs the cause with secrets redacted and returns the generic sentinel
// wrapped with its category.
func (c *Client) fail(sentinel error, op string, cause error) error {
	category := classify(cause)
	c.log.Warn("weather API request failed",
		logger.String("operation", op),
		logger.String("category", string(category)),
		logger.String("cause", errors.RedactSecrets(cause.Error())))
	return newWeatherError(sentinel, category, op)
}

func (c *Client) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	errorType := ""
	if err != nil {
		errorType = string(errors.CategoryGeneric)
		var ee *errors.EnhancedError
		if errors.As(err, &ee) {
			errorType = ee.GetCategory()
		}
	}
	c.metrics.RecordFetch(op, time.Since(start), errorType)
}

// fillSunTimes computes sunrise/sunset from the coordinates when the API
// returned zero for either.
func (c *Client) fillSunTimes(s *Snapshot) {
	if c.sun == nil || (!s.Sunrise.IsZero() && !s.Sunset.IsZero()) {
		return
	}

	date := s.ObservedAt
	if date.IsZero() {
		date = time.Now()
	}
	sunrise, sunset, err := c.sun.SunriseSunset(s.Coordinates.Lat, s.Coordinates.Lon, date.In(s.Location()))
	if c.metrics != nil {
		c.metrics.RecordSunFallback(err == nil)
	}
	if err != nil {
		c.log.Debug("sun time fallback unavailable",
			logger.String("city", s.City),
			logger.Error(err))
		return
	}
	s.Sunrise, s.Sunset = sunrise, sunset
}

// classify maps a transport or decode failure to an error category
func classify(err error) errors.ErrorCategory {
	var (
		ee        *errors.EnhancedError
		statusErr *httpclient.StatusError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &ee):
		return ee.Category
	case errors.Is(err, context.DeadlineExceeded):
		return errors.CategoryTimeout
	case errors.Is(err, context.Canceled):
		return errors.CategoryCancellation
	case errors.As(err, &statusErr):
		return errors.CategoryHTTP
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return errors.CategoryFileParsing
	default:
		return errors.CategoryNetwork
	}
}

func newWeatherError(err error, category errors.ErrorCategory, operation string) error {
	return errors.New(err).
		Component("weather").
		Category(category).
		Context("operation", operation).
		Context("provider", providerName).
		Build()
}

// maskAPIKey replaces the API key in a URL for logging. Unparseable input
// is returned redacted as a whole.
func maskAPIKey(rawURL, keyParam string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.RedactSecrets(rawURL)
	}
	q := u.Query()
	if !q.Has(keyParam) {
		return rawURL
	}
	q.Set(keyParam, "***MASKED***")
	u.RawQuery = q.Encode()
	return u.String()
}

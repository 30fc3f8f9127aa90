package conf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tphakala/weatherdash/internal/errors"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct. A missing API key
// is not an error: commands that never reach the API still work.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateOpenWeatherSettings(&settings.OpenWeather); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateBookmarkSettings(&settings.Bookmarks); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if tz := settings.Main.Timezone; tz != "" {
		if err := validateEnvTimezone(tz); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("main.timezone %q: %v", tz, err))
		}
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("error_count", len(ve.Errors)).
			Build()
	}
	return nil
}

func validateOpenWeatherSettings(s *OpenWeatherSettings) error {
	s.Endpoint = strings.TrimRight(strings.TrimSpace(s.Endpoint), "/")
	u, err := url.Parse(s.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("openweather.endpoint %q must be an absolute URL", s.Endpoint)
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("openweather.ratelimit must not be negative")
	}
	if s.RateLimit > 0 && s.Burst < 1 {
		return fmt.Errorf("openweather.burst must be at least 1 when rate limiting is enabled")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("openweather.timeout must not be negative")
	}
	return nil
}

func validateWebServerSettings(s *WebServerSettings) error {
	port, err := strconv.Atoi(s.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("webserver.port %q must be between 1 and 65535", s.Port)
	}
	return nil
}

func validateBookmarkSettings(s *BookmarkSettings) error {
	if err := validateEnvBookmarkBackend(s.Backend); err != nil {
		return fmt.Errorf("bookmarks.backend %q: %w", s.Backend, err)
	}
	return nil
}

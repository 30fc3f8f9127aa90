package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "WEATHERDASH_DEBUG", validateEnvBool},
		{"main.timezone", "WEATHERDASH_TIMEZONE", validateEnvTimezone},

		{"openweather.apikey", "OPENWEATHER_API_KEY", nil},
		{"openweather.endpoint", "WEATHERDASH_OPENWEATHER_ENDPOINT", validateEnvURL},
		{"openweather.ratelimit", "WEATHERDASH_OPENWEATHER_RATELIMIT", validateEnvNonNegativeFloat},
		{"openweather.timeout", "WEATHERDASH_OPENWEATHER_TIMEOUT", validateEnvDuration},

		{"webserver.host", "WEATHERDASH_HOST", nil},
		{"webserver.port", "WEATHERDASH_PORT", validateEnvPort},

		{"bookmarks.backend", "WEATHERDASH_BOOKMARKS_BACKEND", validateEnvBookmarkBackend},
		{"bookmarks.path", "WEATHERDASH_BOOKMARKS_PATH", nil},

		{"logging.default_level", "WEATHERDASH_LOG_LEVEL", validateEnvLogLevel},
	}
}

// LoadDotEnv loads variables from .env files without overriding ones that
// are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// bindEnvVars binds environment variables to config keys and validates set values
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvTimezone(value string) error {
	if value == "Local" {
		return nil
	}
	if _, err := time.LoadLocation(value); err != nil {
		return fmt.Errorf("unknown timezone")
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

func validateEnvNonNegativeFloat(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateEnvDuration(value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("must be a duration such as 10s")
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func validateEnvBookmarkBackend(value string) error {
	switch value {
	case BookmarkBackendFile, BookmarkBackendSQLite, BookmarkBackendMemory:
		return nil
	default:
		return fmt.Errorf("must be file, sqlite or memory")
	}
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("must be trace, debug, info, warn or error")
	}
}

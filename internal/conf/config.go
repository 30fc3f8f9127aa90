// Package conf loads weatherdash settings from config.yaml, the environment
// and command line flags.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// ConfigFileEnv names an explicit config file, bypassing the search paths.
const ConfigFileEnv = "WEATHERDASH_CONFIG"

// Bookmark storage backends
const (
	BookmarkBackendFile   = "file"
	BookmarkBackendSQLite = "sqlite"
	BookmarkBackendMemory = "memory"
)

// Bookmark storage paths used when bookmarks.path is blank
const (
	DefaultBookmarkFilePath   = "bookmarks.json"
	DefaultBookmarkSQLitePath = "bookmarks.db"
)

// OpenWeatherSettings contains OpenWeatherMap API settings.
type OpenWeatherSettings struct {
	APIKey    string        // OpenWeather API key
	Endpoint  string        // API base endpoint, e.g. https://api.openweathermap.org/data/2.5
	RateLimit float64       // requests per second, 0 disables limiting
	Burst     int           // rate limiter burst size
	Timeout   time.Duration // per-request timeout when the caller sets no deadline
}

// WebServerSettings contains dashboard web server settings.
type WebServerSettings struct {
	Host string // listen address, empty for all interfaces
	Port string // listen port
}

// BookmarkSettings selects where bookmarks are persisted.
type BookmarkSettings struct {
	Backend string // file, sqlite or memory
	Path    string // JSON file or sqlite database path, blank for the backend default
}

// StoragePath returns the configured path, or the default for the backend
// when none is set.
func (s *BookmarkSettings) StoragePath() string {
	if path := strings.TrimSpace(s.Path); path != "" {
		return path
	}
	if s.Backend == BookmarkBackendSQLite {
		return DefaultBookmarkSQLitePath
	}
	return DefaultBookmarkFilePath
}

// Settings contains all configuration options for weatherdash.
type Settings struct {
	Debug bool // true to enable debug logging

	Main struct {
		Name     string // dashboard title
		Timezone string // timezone for log timestamps, "Local" or IANA name
	}

	OpenWeather OpenWeatherSettings
	WebServer   WebServerSettings
	Bookmarks   BookmarkSettings
	Logging     logger.LoggingConfig
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads configuration into a new Settings instance and makes it the
// current one.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper registers defaults and env bindings, then reads the config file.
// A missing config file is created from the embedded default.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	setDefaultConfig()

	if err := bindEnvVars(); err != nil {
		// Invalid environment values are reported but do not stop startup
		logger.Global().Module("conf").Warn("environment configuration issues", logger.Error(err))
	}

	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		viper.SetConfigFile(explicit)
		if err := viper.ReadInConfig(); err != nil {
			return errors.New(fmt.Errorf("error reading config file %s: %w", explicit, err)).
				Component("conf").
				Category(errors.CategoryFileIO).
				Build()
		}
		return nil
	}

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config into dir and reads it
func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	logger.Global().Module("conf").Info("created default config file", logger.String("path", configPath))
	viper.SetConfigFile(configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig returns the embedded default config.yaml
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		// The file is embedded at build time
		panic(fmt.Sprintf("embedded config.yaml missing: %v", err))
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Dump renders settings as YAML with secrets masked.
func Dump(settings *Settings) ([]byte, error) {
	masked := *settings
	masked.OpenWeather.APIKey = MaskSecret(settings.OpenWeather.APIKey)

	data, err := yaml.Marshal(&masked)
	if err != nil {
		return nil, fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	return data, nil
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(secret string) string {
	const visible = 4
	switch {
	case secret == "":
		return ""
	case len(secret) <= visible:
		return "****"
	default:
		return "****" + secret[len(secret)-visible:]
	}
}

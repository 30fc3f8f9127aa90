package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets default values for every configuration key.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Weather Forecast")
	viper.SetDefault("main.timezone", "Local")

	viper.SetDefault("openweather.apikey", "")
	viper.SetDefault("openweather.endpoint", "https://api.openweathermap.org/data/2.5")
	viper.SetDefault("openweather.ratelimit", 1.0)
	viper.SetDefault("openweather.burst", 5)
	viper.SetDefault("openweather.timeout", 10*time.Second)

	viper.SetDefault("webserver.host", "")
	viper.SetDefault("webserver.port", "8080")

	viper.SetDefault("bookmarks.backend", BookmarkBackendFile)
	viper.SetDefault("bookmarks.path", "")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/weatherdash.log")
	viper.SetDefault("logging.file_output.level", "debug")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/weatherdash/cmd/bookmarks"
	"github.com/tphakala/weatherdash/cmd/config"
	"github.com/tphakala/weatherdash/cmd/serve"
	"github.com/tphakala/weatherdash/cmd/weather"
	"github.com/tphakala/weatherdash/internal/buildinfo"
	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, info *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "weatherdash",
		Short:        "Weather dashboard for OpenWeatherMap",
		Long:         "Search current conditions and a 5 day forecast by city or location, with bookmarks, in the browser or the terminal.",
		Version:      info.String(),
		SilenceUsage: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		// Flag names are static, binding only fails on programming errors
		panic(err)
	}

	// Add sub-commands to the root command.
	configCmd := config.Command(settings)
	rootCmd.AddCommand(
		serve.Command(settings),
		weather.Command(settings),
		bookmarks.Command(settings),
		configCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := initialize(settings); err != nil {
			return err
		}
		// config must be able to print settings that fail validation
		if cmd.Name() == configCmd.Name() {
			return nil
		}
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// initialize applies flag overrides to logging and installs the global logger
func initialize(settings *conf.Settings) error {
	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}
	if settings.Logging.Timezone == "" {
		settings.Logging.Timezone = settings.Main.Timezone
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	logger.SetGlobal(central)
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
	flags.StringVar(&settings.OpenWeather.APIKey, "apikey", settings.OpenWeather.APIKey, "OpenWeatherMap API key")
	flags.StringVar(&settings.Bookmarks.Backend, "bookmarks-backend", settings.Bookmarks.Backend, "Bookmark storage backend (file, sqlite or memory)")
	flags.StringVar(&settings.Bookmarks.Path, "bookmarks-path", settings.Bookmarks.Path, "Bookmark file or database path (default bookmarks.json or bookmarks.db by backend)")

	bindings := map[string]string{
		"debug":              "debug",
		"openweather.apikey": "apikey",
		"bookmarks.backend":  "bookmarks-backend",
		"bookmarks.path":     "bookmarks-path",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}

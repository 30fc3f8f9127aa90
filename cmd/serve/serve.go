// Package serve implements the web dashboard command.
package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/weatherdash/internal/app"
	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/httpcontroller"
	"github.com/tphakala/weatherdash/internal/logger"
)

// Command creates the serve command
func Command(settings *conf.Settings) *cobra.Command {
	var initialCity string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Long:  "Serve the weather dashboard over HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := app.New(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			server, err := httpcontroller.New(settings, svc.Dashboard, svc.Metrics)
			if err != nil {
				return fmt.Errorf("error creating HTTP server: %w", err)
			}

			if initialCity != "" {
				svc.Dashboard.SearchAsync(initialCity)
			}

			logger.Global().Module("serve").Info("dashboard available",
				logger.String("url", "http://"+server.Address()+"/"))
			return server.Start(ctx)
		},
	}

	if err := setupFlags(cmd, settings, &initialCity); err != nil {
		panic(err)
	}
	return cmd
}

// setupFlags configures flags specific to the serve command
func setupFlags(cmd *cobra.Command, settings *conf.Settings, initialCity *string) error {
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", settings.WebServer.Host, "Listen address, empty for all interfaces")
	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", settings.WebServer.Port, "Listen port")
	cmd.Flags().StringVar(initialCity, "city", "", "City to load when the server starts")

	if err := viper.BindPFlag("webserver.host", cmd.Flags().Lookup("host")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("webserver.port", cmd.Flags().Lookup("port")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

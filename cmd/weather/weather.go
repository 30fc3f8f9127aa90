// Package weather implements the terminal weather lookup command.
package weather

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/weatherdash/internal/app"
	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/ui"
	wx "github.com/tphakala/weatherdash/internal/weather"
)

type options struct {
	lat, lon float64
	unit     string
	asJSON   bool
}

// Command creates the weather command
func Command(settings *conf.Settings) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "weather [city]",
		Short: "Show current weather and the 5 day forecast",
		Long:  "Look up a city by name, or a location with --lat and --lon, and print the dashboard as text.",
		Example: `  weatherdash weather London
  weatherdash weather "New York" --unit fahrenheit
  weatherdash weather --lat 60.17 --lon 24.94`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, settings, opts, strings.TrimSpace(strings.Join(args, " ")))
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "Longitude")
	cmd.Flags().StringVarP(&opts.unit, "unit", "u", string(wx.Celsius), "Temperature unit (celsius or fahrenheit)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the dashboard state as JSON")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}

func run(cmd *cobra.Command, settings *conf.Settings, opts *options, city string) error {
	unit, err := wx.ParseUnit(opts.unit)
	if err != nil {
		return err
	}
	byCoords := cmd.Flags().Changed("lat")
	switch {
	case city == "" && !byCoords:
		return fmt.Errorf("a city name or --lat and --lon is required")
	case city != "" && byCoords:
		return fmt.Errorf("use either a city name or --lat and --lon, not both")
	}

	ctx := cmd.Context()
	svc, err := app.New(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if unit != svc.Dashboard.View().Unit {
		svc.Dashboard.ToggleUnit()
	}

	var fetchErr error
	if byCoords {
		fetchErr = svc.Dashboard.Locate(ctx, opts.lat, opts.lon)
	} else {
		fetchErr = svc.Dashboard.Search(ctx, city)
	}

	view := svc.Dashboard.View()
	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else if err := ui.RenderText(out, &view); err != nil {
		return err
	}
	return fetchErr
}

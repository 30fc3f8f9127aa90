// Package config implements the command that prints effective settings.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/weatherdash/internal/conf"
)

// Command creates the config command
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := conf.Dump(settings)
			if err != nil {
				return err
			}

			// Source goes first as a YAML comment so the output stays loadable
			source := "built-in defaults"
			if path, err := conf.FindConfigFile(); err == nil {
				source = path
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "# config file: %s\n", source); err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

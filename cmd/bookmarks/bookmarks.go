// Package bookmarks implements commands for managing bookmarked cities.
package bookmarks

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/weatherdash/internal/app"
	"github.com/tphakala/weatherdash/internal/conf"
)

// Command creates the bookmarks command and its subcommands
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List or toggle bookmarked cities",
	}
	cmd.AddCommand(listCommand(settings), toggleCommand(settings))
	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print bookmarked cities in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.New(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			cities := svc.Bookmarks.List()
			if len(cities) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
				return err
			}
			for _, city := range cities {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), city); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func toggleCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <city>",
		Short: "Add a city to the bookmarks, or remove it if present",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.New(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			city := strings.TrimSpace(strings.Join(args, " "))
			added, err := svc.Bookmarks.Toggle(cmd.Context(), city)
			if err != nil {
				return err
			}
			verb := "Removed"
			if added {
				verb = "Added"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, city)
			return err
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/tphakala/weatherdash/cmd"
	"github.com/tphakala/weatherdash/internal/buildinfo"
	"github.com/tphakala/weatherdash/internal/conf"
	"github.com/tphakala/weatherdash/internal/logger"
)

// Build metadata, set with -ldflags "-X main.version=..."
var (
	version   string
	buildDate string
	commit    string
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := conf.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ %v\n", err)
	}

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error loading configuration: %v\n", err)
		return 1
	}

	info := buildinfo.NewContext(version, buildDate, commit)
	rootCmd := cmd.RootCommand(settings, info)

	err = rootCmd.Execute()
	if closeErr := logger.Global().Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "error closing log file: %v\n", closeErr)
	}
	if err != nil {
		return 1
	}
	return 0
}

package observability

import "github.com/tphakala/weatherdash/internal/logger"

// Package-level cached logger instance.
var log = logger.Global().Module("metrics")

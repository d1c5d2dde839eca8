// Package obs contains observability utilities: structured logging, OpenTelemetry
// tracing and metrics, and Server-Timing helpers.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
//
// It defaults to slog.Default so packages are usable before InitLogger runs.
var Logger = slog.Default()

// InitLogger initializes the global Logger with a JSON handler at the named
// level (debug, info, warn, error). Unknown levels fall back to info.
func InitLogger(level string) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})
	Logger = slog.New(h)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

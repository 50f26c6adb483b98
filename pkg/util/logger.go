package util

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger. Development gets human-readable
// text at debug level; every other environment emits JSON at info so log
// shippers can parse it.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	switch env {
	case "development":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(handler).With(slog.String("service", "teamtrackr"))
}

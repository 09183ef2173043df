package app

import (
	"io"
	"log/slog"
)

// newLogger builds the isolated slog.Logger the engine and its evaluation
// logs run through. Level names are the ones slog itself accepts ("debug",
// "info", "warn", "error"); anything unparseable falls back to info rather
// than failing, consistent with nothing in this engine being fatal.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch formatStr {
	case "json":
		handler = slog.NewJSONHandler(outW, opts)
	default:
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler)
}

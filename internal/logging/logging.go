// Package logging builds the slog loggers used across the server.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a logger writing into w. Colors are used only for the standard streams.
func New(w io.Writer, level slog.Level) *slog.Logger {
	colored := w == os.Stdout || w == os.Stderr
	return slog.New(NewHandler(w, level, colored))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, slog.Level(100), false))
}

// OrDiscard returns the logger itself or Discard() if it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}

	return logger
}

// LevelFromString converts a string to a slog.Level. Unrecognized strings result
// in slog.LevelInfo.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "quiet":
		return slog.Level(100)
	default:
		return slog.LevelInfo
	}
}

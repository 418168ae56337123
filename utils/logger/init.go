package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger = slog.Default()

// InitLogger builds the process logger from the configured level and format
// and installs it as the slog default.
func InitLogger(level, format string) *slog.Logger {
	Logger = New(os.Stdout, level, format)
	slog.SetDefault(Logger)

	Logger.Debug("Logger initialized", "level", level, "format", format)

	return Logger
}

// New creates a logger writing to w. Unknown formats fall back to JSON.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a config string to a slog level, defaulting to info.
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

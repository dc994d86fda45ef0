package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(level string) {
	slog.SetDefault(slog.New(stdoutHandler(ParseLevel(level))))
}

// NewStdoutHandler returns the JSON stdout handler used as the primary sink.
func NewStdoutHandler(level string) slog.Handler {
	return stdoutHandler(ParseLevel(level))
}

func stdoutHandler(level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// ParseLevel accepts debug, info, warn or error and falls back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

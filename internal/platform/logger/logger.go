package logger

import (
	"io"
	"log/slog"
)

// New returns a structured JSON logger writing to w with source location
// enabled. Level should be a valid slog level string: DEBUG, INFO, WARN,
// ERROR. Unrecognized values default to INFO.
func New(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	}))
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

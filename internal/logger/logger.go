package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger: JSON output on stdout at info level.
func New() *slog.Logger {
	return newWithWriter(os.Stdout, slog.LevelInfo)
}

func newWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a slog logger on stdout at the provided level. Format "text"
// selects the text handler, anything else JSON. An invalid level defaults to
// info.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter is New writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"genresim/internal/config"
)

// New creates a logger writing to stderr. Format "auto" picks the text
// handler when stderr is a terminal and JSON otherwise.
func New(cfg config.LogConfig) *slog.Logger {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	return newLogger(os.Stderr, cfg, isTTY)
}

// NewFile returns a JSON logger appending to path, for processes that
// own the terminal. An empty path discards every record. The closer
// releases the file.
func NewFile(path string, cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, config.LogConfig{Level: cfg.Level, Format: "json"}, false), f, nil
}

func newLogger(w io.Writer, cfg config.LogConfig, isTTY bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, options)
	case "json":
		handler = slog.NewJSONHandler(w, options)
	default:
		if isTTY {
			handler = slog.NewTextHandler(w, options)
		} else {
			handler = slog.NewJSONHandler(w, options)
		}
	}
	return slog.New(handler)
}

// ParseLevel maps debug/info/warn/error to a slog level; anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

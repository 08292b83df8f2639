// Package logging builds the diagnostic slog.Logger from config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options mirrors config.Log.
type Options struct {
	Level  string // "" disables logging
	Format string // "text" | "json"
	File   string // "" writes to the fallback writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for opts and a Closer for its output file.
// Unusable options degrade to a working logger plus a warning instead
// of failing startup.
func New(opts Options, fallback io.Writer) (*slog.Logger, io.Closer) {
	level, ok := parseLevel(opts.Level)
	if !ok {
		logger, c := New(Options{Level: "info", Format: opts.Format, File: opts.File}, fallback)
		logger.Warn("could not parse log level", "level", opts.Level)
		return logger, c
	}
	if level == nil {
		return slog.New(slog.DiscardHandler), nopCloser{}
	}

	var (
		out    io.Writer = fallback
		closer io.Closer = nopCloser{}
	)
	switch opts.File {
	case "":
	case os.DevNull:
		return slog.New(slog.DiscardHandler), nopCloser{}
	default:
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger, c := New(Options{Level: opts.Level, Format: opts.Format}, fallback)
			logger.Warn("could not open log file", "file", opts.File, "err", err)
			return logger, c
		}
		out, closer = f, f
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "text", "":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		handler = slog.NewTextHandler(out, handlerOpts)
		logger := slog.New(handler)
		logger.Warn("could not parse log format, using text", "format", opts.Format)
		return logger, closer
	}
	return slog.New(handler), closer
}

// parseLevel maps a config level to a slog level. A nil level with ok
// means logging is disabled.
func parseLevel(s string) (slog.Leveler, bool) {
	switch strings.ToLower(s) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// Package logging builds the slog handlers used by the command line tool.
// Library packages only take a *slog.Logger; this package decides how it
// prints.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name to a slog level. "trace" is debug with
// caller reporting.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewHandler returns a handler writing to w (stderr when nil) in format at
// level. Text output goes through charmbracelet/log.
func NewHandler(level, format string, w io.Writer) (slog.Handler, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	trace := strings.EqualFold(strings.TrimSpace(level), "trace")

	switch strings.ToLower(format) {
	case "", FormatText:
		return log.NewWithOptions(w, log.Options{
			Level:           log.Level(lvl),
			ReportTimestamp: lvl <= slog.LevelDebug,
			ReportCaller:    trace,
			Prefix:          "tableland",
		}), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: trace}), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Setup installs a handler as the slog default and returns the logger.
func Setup(level, format string, w io.Writer) (*slog.Logger, error) {
	h, err := NewHandler(level, format, w)
	if err != nil {
		return nil, err
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, nil
}

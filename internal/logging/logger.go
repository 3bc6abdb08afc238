// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Log formats accepted by New.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// New creates the application logger writing to stderr.
// FormatAuto picks text on a terminal and JSON otherwise.
func New(level slog.Level, format string) (*slog.Logger, error) {
	if strings.EqualFold(format, FormatAuto) || format == "" {
		format = FormatJSON
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = FormatText
		}
	}
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a logger writing to w in the given format.
// It standardizes the "error" key to "err".
func NewWithWriter(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	options := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}

	switch strings.ToLower(format) {
	case FormatText:
		return slog.New(slog.NewTextHandler(w, options)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, options)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel converts debug, info, warn or error into a slog level.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

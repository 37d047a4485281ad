// Package logging builds the process-wide slog.Logger. Records are rendered by
// charmbracelet/log so stderr output matches the terminal styling.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level and format
// (text, json or logfmt).
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var formatter charmlog.Formatter
	switch format {
	case "", "text":
		formatter = charmlog.TextFormatter
	case "json":
		formatter = charmlog.JSONFormatter
	case "logfmt":
		formatter = charmlog.LogfmtFormatter
	default:
		return nil, fmt.Errorf("log format %q: expected text, json or logfmt", format)
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: formatter != charmlog.TextFormatter,
		Prefix:          "roadmap",
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

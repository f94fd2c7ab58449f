package ui

import (
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// NewLogger returns a leveled logger writing to w. Unknown levels fall back
// to info
func NewLogger(level string, w io.Writer) *pterm.Logger {
	return pterm.DefaultLogger.
		WithLevel(ParseLevel(level)).
		WithWriter(w).
		WithTime(true)
}

// ParseLevel maps debug|info|warn|error (and trace) to a pterm level
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}

package snowtrail

import (
	"log/slog"
	"strings"
)

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

var (
	AppLogKind = slog.StringValue("app")

	// MaskedLogValue is a convenience [log/slog.Value]
	// to be used in implementations of [log/slog.LogValuer]
	// to hide sensitive data from log messages.
	MaskedLogValue = slog.StringValue(LogMaskVal)
)

// NewLogLevel parses val into a [log/slog.Level].
// Unknown values fall back to [log/slog.LevelInfo].
//
// FATAL is accepted for compatibility and maps onto [log/slog.LevelError].
func NewLogLevel(val string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(val)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "FATAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Mask replaces every character of s with the mask value,
// keeping only whether s was set.
func Mask(s string) string {
	if s == "" {
		return ""
	}

	return LogMaskVal
}

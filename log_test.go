package snowtrail_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/snowtrail"
)

func TestNewLogLevel(t *testing.T) {
	for _, tc := range []struct {
		name string
		val  string
		want slog.Level
	}{
		{"zero", "", slog.LevelInfo},
		{"unknown", "TRACE", slog.LevelInfo},
		{"debug", "DEBUG", slog.LevelDebug},
		{"lower", "debug", slog.LevelDebug},
		{"padded", " warn\n", slog.LevelWarn},
		{"warning", "WARNING", slog.LevelWarn},
		{"error", "ERROR", slog.LevelError},
		{"fatal", "FATAL", slog.LevelError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, snowtrail.NewLogLevel(tc.val))
		})
	}
}

func TestMask(t *testing.T) {
	require.Equal(t, "", snowtrail.Mask(""))
	require.Equal(t, snowtrail.LogMaskVal, snowtrail.Mask("hunter2"))
}

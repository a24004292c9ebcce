package snowtrail_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/snowtrail"
)

func TestEnvironmentValid(t *testing.T) {
	for _, e := range []snowtrail.Environment{
		snowtrail.Demo,
		snowtrail.Development,
		snowtrail.Production,
		snowtrail.Review,
		snowtrail.Staging,
		snowtrail.Testing,
	} {
		require.Nil(t, e.Valid())
	}

	require.ErrorIs(t, snowtrail.Environment("").Valid(), snowtrail.ErrNotValid)
	require.ErrorIs(t, snowtrail.Environment("development").Valid(), snowtrail.ErrNotValid)
}

func TestEnvironmentReportsErrors(t *testing.T) {
	require.True(t, snowtrail.Production.ReportsErrors())
	require.True(t, snowtrail.Staging.ReportsErrors())
	require.False(t, snowtrail.Development.ReportsErrors())
	require.False(t, snowtrail.Testing.ReportsErrors())
}

func TestEnvVarOrEnv(t *testing.T) {
	key := "SNOWTRAIL_TEST_ENVIRONMENT"

	require.Equal(t, snowtrail.Development, snowtrail.EnvVarOrEnv(key, snowtrail.Development))

	t.Setenv(key, "staging")
	require.Equal(t, snowtrail.Staging, snowtrail.EnvVarOrEnv(key, snowtrail.Development))

	t.Setenv(key, "nowhere")
	require.Equal(t, snowtrail.Development, snowtrail.EnvVarOrEnv(key, snowtrail.Development))
}

func TestEnvVarOrBool(t *testing.T) {
	key := "SNOWTRAIL_TEST_BOOL"

	require.True(t, snowtrail.EnvVarOrBool(key, true))

	t.Setenv(key, "FALSE")
	require.False(t, snowtrail.EnvVarOrBool(key, true))

	t.Setenv(key, "True")
	require.True(t, snowtrail.EnvVarOrBool(key, false))

	t.Setenv(key, "yes")
	require.False(t, snowtrail.EnvVarOrBool(key, false))
}

func TestEnvVarOrDuration(t *testing.T) {
	key := "SNOWTRAIL_TEST_DURATION"

	require.Equal(t, time.Second, snowtrail.EnvVarOrDuration(key, time.Second))

	t.Setenv(key, "90s")
	require.Equal(t, 90*time.Second, snowtrail.EnvVarOrDuration(key, time.Second))

	t.Setenv(key, "soon")
	require.Equal(t, time.Second, snowtrail.EnvVarOrDuration(key, time.Second))
}

func TestEnvVarOrLogLevel(t *testing.T) {
	key := "SNOWTRAIL_TEST_LOG_LEVEL"

	require.Equal(t, slog.LevelWarn, snowtrail.EnvVarOrLogLevel(key, slog.LevelWarn))

	t.Setenv(key, "DEBUG")
	require.Equal(t, slog.LevelDebug, snowtrail.EnvVarOrLogLevel(key, slog.LevelWarn))
}

func TestEnvVarOrString(t *testing.T) {
	key := "SNOWTRAIL_TEST_STRING"

	require.Equal(t, "def", snowtrail.EnvVarOrString(key, "def"))

	t.Setenv(key, "val")
	require.Equal(t, "val", snowtrail.EnvVarOrString(key, "def"))
}

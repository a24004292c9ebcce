package ranger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xy-planning-network/snowtrail"
	"github.com/xy-planning-network/snowtrail/logger"
	"github.com/xy-planning-network/snowtrail/secrets"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = slog.LevelInfo
	logJSONEnvVar   = "LOG_JSON"
	defaultLogJSON  = false
	sentryDsnEnvVar = "SENTRY_DSN"

	// Secrets defaults
	secretsBackendEnvVar   = "SECRETS_BACKEND"
	defaultSecretsBackend  = envBackend
	secretsDotenvEnvVar    = "SECRETS_DOTENV"
	defaultSecretsDotenv   = ".env"
	secretsFileEnvVar      = "SECRETS_FILE"
	secretsSectionEnvVar   = "SECRETS_SECTION"
	secretsAWSIDEnvVar     = "SECRETS_AWS_ID"
	secretsAWSRegionEnvVar = "SECRETS_AWS_REGION"
	secretsKeyringEnvVar   = "SECRETS_KEYRING_SERVICE"

	// Snowflake defaults
	tokenPathEnvVar = "SNOWFLAKE_TOKEN_PATH"
)

// Secrets backends SECRETS_BACKEND accepts.
const (
	envBackend     = "env"
	fileBackend    = "file"
	awsBackend     = "aws"
	keyringBackend = "keyring"
)

func defaultOpts() []RangerOption {
	return []RangerOption{
		WithContext(context.Background()),
		WithEnv(environmentEnvVar),
		withDefaultLogger(),
		withDefaultSecretStore(),
		withDefaultTokenSource(),
	}
}

// defaultAppLogger constructs a [logger.Logger] configured for use in the application.
// If output is nil, logs go to os.Stdout.
func defaultAppLogger(env snowtrail.Environment, output io.Writer) logger.Logger {
	if output == nil {
		output = os.Stdout
	}

	slogger := newSlogger(snowtrail.AppLogKind, env, output)
	slog.SetDefault(slogger)

	l := logger.New(slogger)
	l.Debug("setting up app logger", nil)
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" && env.ReportsErrors() {
		l.Debug("using SentryLogger for app logger", nil)
		return logger.NewSentryLogger(env, l, dsn)
	}

	return l
}

// newSlogger constructs the [*log/slog.Logger] for kind:
// colorized text in Development, unless LOG_JSON is set, and JSON everywhere else.
func newSlogger(kind slog.Value, env snowtrail.Environment, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(snowtrail.EnvVarOrLogLevel(logLevelEnvVar, defaultLogLvl))

	useJSON := !env.IsDevelopment() || snowtrail.EnvVarOrBool(logJSONEnvVar, defaultLogJSON)

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: logger.TruncSourceAttr,
		})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.ColorizeLevel(groups, a)
				return logger.TruncSourceAttr(groups, a)
			},
		})
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: snowtrail.LogKindKey, Value: kind},
	})

	return slog.New(handler)
}

// defaultSecretStore constructs the [secrets.Store] named by SECRETS_BACKEND.
//
// Each backend relies on its own env vars:
//   - env: SECRETS_DOTENV, a dotenv file overlaid by the process environment
//   - file: SECRETS_FILE and SECRETS_SECTION
//   - aws: SECRETS_AWS_ID and SECRETS_AWS_REGION
//   - keyring: SECRETS_KEYRING_SERVICE
func defaultSecretStore(ctx context.Context) (secrets.Store, error) {
	backend := strings.ToLower(snowtrail.EnvVarOrString(secretsBackendEnvVar, defaultSecretsBackend))
	switch backend {
	case envBackend:
		return secrets.NewEnvStore(snowtrail.EnvVarOrString(secretsDotenvEnvVar, defaultSecretsDotenv))

	case fileBackend:
		return secrets.NewFileStore(
			snowtrail.EnvVarOrString(secretsFileEnvVar, secrets.DefaultSecretsFile),
			secrets.WithSection(os.Getenv(secretsSectionEnvVar)),
		)

	case awsBackend:
		return secrets.NewAWSStore(
			ctx,
			os.Getenv(secretsAWSIDEnvVar),
			secrets.WithRegion(os.Getenv(secretsAWSRegionEnvVar)),
		)

	case keyringBackend:
		return secrets.NewKeyringStore(os.Getenv(secretsKeyringEnvVar)), nil

	default:
		return nil, fmt.Errorf("%w: %s %q", snowtrail.ErrNotValid, secretsBackendEnvVar, backend)
	}
}

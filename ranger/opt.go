package ranger

import (
	"context"
	"fmt"

	"github.com/xy-planning-network/snowtrail"
	"github.com/xy-planning-network/snowtrail/logger"
	"github.com/xy-planning-network/snowtrail/secrets"
	"github.com/xy-planning-network/snowtrail/snowflake"
	"golang.org/x/oauth2"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithLogger is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// The default secrets store is an example of the second.
// It is built only when the closure it returns is called,
// after the Environment and logger.Logger are settled.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the snowtrail app.
// Reading secrets and opening the Snowflake session use it unless told otherwise.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context", snowtrail.ErrMissingData)
		}

		rng.ctx = ctx
		return nil, nil
	}
}

// WithConnector sets the snowflake.Connector the snowtrail app opens its session with.
func WithConnector(c snowflake.Connector) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.cxn = c
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the environment variable named by it a valid Environment.
// WithEnv then exposes that Environment to the snowtrail app.
//
// If both fail, the default Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	e := snowtrail.Environment(envVar)
	if err := e.Valid(); err == nil {
		return func(rng *Ranger) (OptFollowup, error) {
			rng.env = e
			return nil, nil
		}
	}

	return func(rng *Ranger) (OptFollowup, error) {
		rng.env = snowtrail.EnvVarOrEnv(envVar, snowtrail.Development)
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the snowtrail app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		return nil, nil
	}
}

// WithSecretStore sets the secrets.Store connection values are read from.
func WithSecretStore(s secrets.Store) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.store = s
		return nil, nil
	}
}

// WithTokenSource sets where the OAuth token is read from.
// The token is read once, when New is called.
func WithTokenSource(ts oauth2.TokenSource) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.ts = ts
		return nil, nil
	}
}

// withDefaultLogger constructs a followup option that, when called,
// exposes the default app logger if none was provided.
func withDefaultLogger() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.l != nil {
				return nil
			}

			rng.l = defaultAppLogger(rng.env, nil)
			rng.l.Debug(fmt.Sprintf("using env %s", rng.env), nil)

			return nil
		}, nil
	}
}

// withDefaultSecretStore constructs a followup option that, when called,
// exposes the secrets.Store named by SECRETS_BACKEND if none was provided.
func withDefaultSecretStore() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.store != nil {
				rng.l.Debug(fmt.Sprintf("using secrets store %T", rng.store), nil)
				return nil
			}

			store, err := defaultSecretStore(rng.ctx)
			if err != nil {
				return err
			}

			rng.store = store
			rng.l.Debug(fmt.Sprintf("using secrets store %T", store), nil)

			return nil
		}, nil
	}
}

// withDefaultTokenSource constructs a followup option that, when called,
// exposes the token file at SNOWFLAKE_TOKEN_PATH if no oauth2.TokenSource was provided.
func withDefaultTokenSource() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.ts != nil {
				return nil
			}

			path := snowtrail.EnvVarOrString(tokenPathEnvVar, snowflake.DefaultTokenPath)
			rng.ts = snowflake.FileTokenSource(path)
			rng.l.Debug(fmt.Sprintf("using token file %s", path), nil)

			return nil
		}, nil
	}
}

package ranger

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/snowtrail"
	"github.com/xy-planning-network/snowtrail/logger"
	"github.com/xy-planning-network/snowtrail/secrets"
	"github.com/xy-planning-network/snowtrail/snowflake"
	"golang.org/x/oauth2"
)

// sentryFlushTimeout bounds how long Shutdown waits on buffered Sentry events.
const sentryFlushTimeout = 2 * time.Second

// A Ranger manages and exposes all components of a snowtrail app to one another.
type Ranger struct {
	ctx      context.Context
	cxn      snowflake.Connector
	env      snowtrail.Environment
	l        logger.Logger
	provider *snowflake.Provider
	store    secrets.Store
	ts       oauth2.TokenSource
}

// New constructs a Ranger from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
//
// New reads the connection values and the OAuth token once, up front,
// and fails with ErrBadConfig if any are missing.
// New does not reach Snowflake; call Session for that.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// NOTE: calling an option configures the *Ranger under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Ranger
	// until either (1) user supplied RangerOptions or (2) default RangerOptions
	// configure the *Ranger first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", snowtrail.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %w", snowtrail.ErrBadConfig, err)
		}
	}

	provider, err := snowflake.Load(
		r.ctx,
		r.store,
		r.ts,
		snowflake.WithConnector(r.cxn),
		snowflake.WithLogger(r.l),
	)
	if err != nil {
		r.l.Error("could not configure Snowflake", &logger.LogContext{Error: err})
		return nil, fmt.Errorf("%w: %w", snowtrail.ErrBadConfig, err)
	}

	r.provider = provider
	r.l.Debug("configured Snowflake", &logger.LogContext{
		Data: map[string]any{"config": provider.Config()},
	})

	return r, nil
}

func (r *Ranger) EmitEnv() snowtrail.Environment      { return r.env }
func (r *Ranger) EmitLogger() logger.Logger           { return r.l }
func (r *Ranger) EmitProvider() *snowflake.Provider   { return r.provider }
func (r *Ranger) EmitSecretStore() secrets.Store      { return r.store }
func (r *Ranger) EmitTokenSource() oauth2.TokenSource { return r.ts }
func (r *Ranger) EmitConnector() snowflake.Connector  { return r.cxn }

// Session returns the app's Snowflake session, opening it on the first call.
// If ctx is nil, the context the Ranger was configured with is used.
func (r *Ranger) Session(ctx context.Context) (*snowflake.Session, error) {
	if ctx == nil {
		ctx = r.ctx
	}

	return r.provider.AcquireSession(ctx)
}

// Shutdown closes the Snowflake session, if open,
// and flushes any events still bound for Sentry.
func (r *Ranger) Shutdown() error {
	r.l.Info("shutting down", nil)

	err := r.provider.Discard()
	if _, ok := r.l.(*logger.SentryLogger); ok && !logger.FlushSentry(sentryFlushTimeout) {
		err = errors.Join(err, fmt.Errorf("%w: Sentry did not flush in %s", snowtrail.ErrUnexpected, sentryFlushTimeout))
	}

	if err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("shutdown successfully", nil)
	return nil
}

package snowflake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xy-planning-network/snowtrail"
	"github.com/xy-planning-network/snowtrail/logger"
	"github.com/xy-planning-network/snowtrail/secrets"
	"golang.org/x/oauth2"
)

// A Provider lazily opens one Session and hands out that same Session thereafter.
//
// A Provider is safe for concurrent use:
// concurrent first calls to AcquireSession open a single Session.
type Provider struct {
	cfg CxnConfig
	cxn Connector
	l   logger.Logger
	now func() time.Time

	mu      sync.Mutex
	session *Session
}

// A ProviderOpt configures a *Provider when constructing a new one.
type ProviderOpt func(*Provider)

// WithConnector sets the Connector a Provider opens Sessions with.
// The default is DriverConnector.
func WithConnector(c Connector) ProviderOpt {
	return func(p *Provider) {
		if c != nil {
			p.cxn = c
		}
	}
}

// WithLogger sets the logger.Logger a Provider logs to.
func WithLogger(l logger.Logger) ProviderOpt {
	return func(p *Provider) {
		if l != nil {
			p.l = l
		}
	}
}

// NewProvider constructs a *Provider from cfg, keeping a copy of it.
//
// NewProvider fails if any connection value in cfg is missing.
// It does not reach Snowflake.
func NewProvider(cfg *CxnConfig, opts ...ProviderOpt) (*Provider, error) {
	if err := cfg.valid(); err != nil {
		return nil, err
	}

	p := &Provider{
		cfg: *cfg,
		cxn: DriverConnector{},
		l:   logger.New(nil),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Load reads a *CxnConfig from store and ts with LoadCxnConfig
// and constructs a *Provider from it.
func Load(ctx context.Context, store secrets.Store, ts oauth2.TokenSource, opts ...ProviderOpt) (*Provider, error) {
	cfg, err := LoadCxnConfig(ctx, store, ts)
	if err != nil {
		return nil, err
	}

	return NewProvider(cfg, opts...)
}

// Config returns a copy of the connection parameters the Provider uses.
func (p *Provider) Config() CxnConfig { return p.cfg }

// AcquireSession returns the Provider's Session, opening it on the first call.
//
// Once a Session is open, AcquireSession returns it without reaching Snowflake.
// If opening fails, the Connector's error returns as is,
// no Session is kept, and the next call tries again.
//
// An expired token is logged but still sent; replace the Provider to pick up a new token.
func (p *Provider) AcquireSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return p.session, nil
	}

	if p.cfg.TokenExpired(p.now()) {
		p.l.Warn("OAuth token has expired, Snowflake is likely to reject it", &logger.LogContext{
			Data: map[string]any{"token_expiry": p.cfg.TokenExpiry},
		})
	}

	p.l.Debug("opening Snowflake session", &logger.LogContext{
		Data: map[string]any{"config": p.cfg},
	})

	cfg := p.cfg
	db, err := p.cxn.Connect(ctx, &cfg)
	if err != nil {
		p.l.Error("could not open Snowflake session", &logger.LogContext{
			Caller: logger.CurrentCaller(),
			Data:   map[string]any{"account": p.cfg.Account, "host": p.cfg.Host},
			Error:  err,
		})

		return nil, err
	}

	s := newSession(db)
	s.SetSQLSimplifierEnabled(true)
	p.session = s

	p.l.Info("opened Snowflake session", &logger.LogContext{
		Data: map[string]any{"session": s},
	})

	return s, nil
}

// Discard closes the open Session, if any,
// so the next call to AcquireSession opens a new one.
func (p *Provider) Discard() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil
	}

	s := p.session
	p.session = nil

	if err := s.Close(); err != nil {
		return fmt.Errorf("%w: closing session %s: %s", snowtrail.ErrUnexpected, s.ID(), err)
	}

	p.l.Info("discarded Snowflake session", &logger.LogContext{
		Data: map[string]any{"session": s},
	})

	return nil
}

package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// A Session is an open, authenticated connection to Snowflake.
type Session struct {
	id       uuid.UUID
	db       *sql.DB
	openedAt time.Time

	sqlSimplifier atomic.Bool
}

var _ slog.LogValuer = (*Session)(nil)

func newSession(db *sql.DB) *Session {
	return &Session{
		id:       uuid.New(),
		db:       db,
		openedAt: time.Now(),
	}
}

// ID identifies the Session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// OpenedAt is when the handshake for the Session completed.
func (s *Session) OpenedAt() time.Time { return s.openedAt }

// DB exposes the *sql.DB backing the Session.
//
// NB: use in exceptional circumstances only.
func (s *Session) DB() *sql.DB { return s.db }

// SQLSimplifierEnabled asserts whether generated SQL ought to be flattened before it is sent.
// A *Provider enables it on every Session it opens.
func (s *Session) SQLSimplifierEnabled() bool { return s.sqlSimplifier.Load() }

// SetSQLSimplifierEnabled toggles the SQL simplifier.
func (s *Session) SetSQLSimplifierEnabled(enabled bool) { s.sqlSimplifier.Store(enabled) }

// Ping checks the connection is still alive.
func (s *Session) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return nil
}

// Close closes the connection backing the Session.
func (s *Session) Close() error { return s.db.Close() }

// LogValue implements [log/slog.LogValuer].
func (s *Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", s.id.String()),
		slog.Time("opened_at", s.openedAt),
		slog.Bool("sql_simplifier", s.SQLSimplifierEnabled()),
	)
}

package snowflake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xy-planning-network/snowtrail"
	"github.com/xy-planning-network/snowtrail/secrets"
	"golang.org/x/oauth2"
)

// Keys looked up in a secrets.Store.
const (
	HostKey      = "HOST"
	AccountKey   = "ACCOUNT"
	DatabaseKey  = "DATABASE"
	WarehouseKey = "WAREHOUSE"
	SchemaKey    = "SCHEMA"
	RoleKey      = "ROLE"
)

// AuthenticatorOAuth is the only authenticator a CxnConfig uses.
const AuthenticatorOAuth = "oauth"

// RequiredKeys lists the secrets LoadCxnConfig reads, in the order it reads them.
var RequiredKeys = []string{HostKey, AccountKey, DatabaseKey, WarehouseKey, SchemaKey, RoleKey}

// CxnConfig holds connection information used to connect to a Snowflake account
// with an OAuth token.
//
// Treat a CxnConfig as read-only once loaded; a *Provider keeps its own copy.
type CxnConfig struct {
	Host          string
	Account       string
	Database      string
	Warehouse     string
	Schema        string
	Role          string
	Authenticator string
	Token         string

	// TokenExpiry is when Token stops being accepted.
	// The zero value means it is unknown.
	TokenExpiry time.Time
}

var _ slog.LogValuer = CxnConfig{}

// LoadCxnConfig builds a *CxnConfig from the connection values in store
// and the token from ts, reading each exactly once.
//
// A key missing from store fails with ErrKeyLookup; keys are looked up in RequiredKeys order
// and the first missing one is reported.
// A token that cannot be read fails with ErrTokenIO.
// LoadCxnConfig does not reach Snowflake.
func LoadCxnConfig(ctx context.Context, store secrets.Store, ts oauth2.TokenSource) (*CxnConfig, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: %w: no secrets store", ErrKeyLookup, snowtrail.ErrMissingData)
	}

	vals := make(map[string]string, len(RequiredKeys))
	for _, key := range RequiredKeys {
		val, err := store.Lookup(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrKeyLookup, err)
		}

		vals[key] = val
	}

	if ts == nil {
		return nil, fmt.Errorf("%w: %w: no token source", ErrTokenIO, snowtrail.ErrMissingData)
	}

	tok, err := ts.Token()
	if err != nil && !errors.Is(err, ErrTokenIO) {
		err = fmt.Errorf("%w: %w", ErrTokenIO, err)
	}

	if err != nil {
		return nil, err
	}

	return &CxnConfig{
		Host:          vals[HostKey],
		Account:       vals[AccountKey],
		Database:      vals[DatabaseKey],
		Warehouse:     vals[WarehouseKey],
		Schema:        vals[SchemaKey],
		Role:          vals[RoleKey],
		Authenticator: AuthenticatorOAuth,
		Token:         tok.AccessToken,
		TokenExpiry:   tok.Expiry,
	}, nil
}

// Params returns the connection parameters as a new map,
// keyed by lower-case parameter name.
func (c CxnConfig) Params() map[string]string {
	return map[string]string{
		"host":          c.Host,
		"account":       c.Account,
		"database":      c.Database,
		"warehouse":     c.Warehouse,
		"schema":        c.Schema,
		"role":          c.Role,
		"authenticator": c.Authenticator,
		"token":         c.Token,
	}
}

// TokenExpired asserts whether the token's known expiry is before now.
// A token with unknown expiry is never considered expired.
func (c CxnConfig) TokenExpired(now time.Time) bool {
	return !c.TokenExpiry.IsZero() && now.After(c.TokenExpiry)
}

// LogValue logs every field but masks the token.
//
// LogValue implements [log/slog.LogValuer].
func (c CxnConfig) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("host", c.Host),
		slog.String("account", c.Account),
		slog.String("database", c.Database),
		slog.String("warehouse", c.Warehouse),
		slog.String("schema", c.Schema),
		slog.String("role", c.Role),
		slog.String("authenticator", c.Authenticator),
		{Key: "token", Value: snowtrail.MaskedLogValue},
	}

	if !c.TokenExpiry.IsZero() {
		attrs = append(attrs, slog.Time("token_expiry", c.TokenExpiry))
	}

	return slog.GroupValue(attrs...)
}

// valid asserts every value needed for a handshake is set.
func (c *CxnConfig) valid() error {
	if c == nil {
		return fmt.Errorf("%w: %w: nil config", ErrKeyLookup, snowtrail.ErrMissingData)
	}

	for _, kv := range [][2]string{
		{HostKey, c.Host},
		{AccountKey, c.Account},
		{DatabaseKey, c.Database},
		{WarehouseKey, c.Warehouse},
		{SchemaKey, c.Schema},
		{RoleKey, c.Role},
	} {
		if kv[1] == "" {
			return fmt.Errorf("%w: %w: %s is empty", ErrKeyLookup, snowtrail.ErrMissingData, kv[0])
		}
	}

	if c.Authenticator != AuthenticatorOAuth {
		return fmt.Errorf("%w: authenticator %q, want %q", snowtrail.ErrNotValid, c.Authenticator, AuthenticatorOAuth)
	}

	if c.Token == "" {
		return fmt.Errorf("%w: %w: token is empty", ErrTokenIO, snowtrail.ErrMissingData)
	}

	return nil
}

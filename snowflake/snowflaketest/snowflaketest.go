package snowflaketest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xy-planning-network/snowtrail/secrets"
	"github.com/xy-planning-network/snowtrail/snowflake"
)

//go:generate mockgen -destination=mock_connector.go -package=snowflaketest github.com/xy-planning-network/snowtrail/snowflake Connector

// ErrNoStatements is returned by every statement sent over a DB from NewDB.
var ErrNoStatements = errors.New("snowflaketest: statements are not supported")

// NewSecrets returns a secrets.Map holding every key snowflake.LoadCxnConfig needs.
func NewSecrets() secrets.Map {
	return secrets.Map{
		snowflake.HostKey:      "xy12345.snowflakecomputing.com",
		snowflake.AccountKey:   "xy12345",
		snowflake.DatabaseKey:  "ANALYTICS",
		snowflake.WarehouseKey: "COMPUTE_WH",
		snowflake.SchemaKey:    "PUBLIC",
		snowflake.RoleKey:      "ANALYST",
	}
}

// NewTokenFile writes contents to a token file in a temporary directory
// and returns its path.
func NewTokenFile(t testing.TB, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// NewDB returns a *sql.DB whose connections answer pings and nothing else.
// Closing it never reaches a network.
func NewDB() *sql.DB { return sql.OpenDB(connector{}) }

// NewFailingDB returns a *sql.DB whose connections all fail with err.
func NewFailingDB(err error) *sql.DB { return sql.OpenDB(connector{err: err}) }

type connector struct {
	err error
}

func (c connector) Connect(context.Context) (driver.Conn, error) {
	if c.err != nil {
		return nil, c.err
	}

	return conn{}, nil
}

func (c connector) Driver() driver.Driver { return drv{c} }

type drv struct {
	c connector
}

func (d drv) Open(string) (driver.Conn, error) { return d.c.Connect(context.Background()) }

type conn struct{}

func (conn) Prepare(string) (driver.Stmt, error) { return nil, ErrNoStatements }
func (conn) Close() error                        { return nil }
func (conn) Begin() (driver.Tx, error)           { return nil, ErrNoStatements }

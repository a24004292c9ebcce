package snowflake

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/snowflakedb/gosnowflake"
)

const (
	defaultPort     = 443
	defaultProtocol = "https"
	application     = "snowtrail"
)

// A Connector opens a live connection to Snowflake.
// Connect returns an error wrapping ErrConnection when Snowflake rejects the parameters
// or cannot be reached.
type Connector interface {
	Connect(ctx context.Context, cfg *CxnConfig) (*sql.DB, error)
}

// DriverConnector implements Connector with the Snowflake Go driver.
type DriverConnector struct{}

var _ Connector = DriverConnector{}

// Connect opens a *sql.DB for cfg and pings it,
// so the login handshake happens before Connect returns.
//
// No timeout is applied beyond whatever ctx carries.
func (DriverConnector) Connect(ctx context.Context, cfg *CxnConfig) (*sql.DB, error) {
	return openAndPing(ctx, gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, buildDriverConfig(cfg)))
}

// buildDriverConfig translates cfg into the driver's configuration.
func buildDriverConfig(cfg *CxnConfig) gosnowflake.Config {
	return gosnowflake.Config{
		Account:       cfg.Account,
		Host:          cfg.Host,
		Port:          defaultPort,
		Protocol:      defaultProtocol,
		Database:      cfg.Database,
		Schema:        cfg.Schema,
		Warehouse:     cfg.Warehouse,
		Role:          cfg.Role,
		Authenticator: gosnowflake.AuthTypeOAuth,
		Token:         cfg.Token,
		Application:   application,
	}
}

// openAndPing opens a *sql.DB over c and checks it answers.
// On failure, the *sql.DB is closed.
func openAndPing(ctx context.Context, c driver.Connector) (*sql.DB, error) {
	db := sql.OpenDB(c)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return db, nil
}

package snowflake

import "errors"

var (
	// ErrKeyLookup marks a connection value missing from the secrets store.
	ErrKeyLookup = errors.New("secret lookup failed")

	// ErrTokenIO marks an OAuth token file that cannot be read.
	ErrTokenIO = errors.New("cannot read OAuth token")

	// ErrConnection marks Snowflake rejecting or not answering the handshake.
	ErrConnection = errors.New("cannot connect to Snowflake")
)

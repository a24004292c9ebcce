/*
Package snowflake manages our Snowflake connection.

A [*Provider] holds the [CxnConfig] read once from a secrets store and an OAuth token file,
and opens a single [*Session] the first time one is asked for.
Every later call to [*Provider.AcquireSession] returns that same [*Session].

Opening the [*Session] is delegated to a [Connector].
[DriverConnector] is the one used in production;
package snowflaketest provides a mock for testing without reaching Snowflake.

Errors name the stage that failed:
[ErrKeyLookup] for a missing secret, [ErrTokenIO] for an unreadable token
and [ErrConnection] for a failed handshake.
None are retried.
*/
package snowflake

/*
Package snowtrail holds the pieces shared by every package in a snowtrail app:
the [Environment] an app runs in, helpers for reading configuration from environment variables,
sentinel errors and log conventions.

A snowtrail app opens a single OAuth-authenticated Snowflake session.
Package ranger wires the parts together; package snowflake owns the session;
package secrets reads the connection values.
*/
package snowtrail

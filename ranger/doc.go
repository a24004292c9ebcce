/*
Package ranger initializes and manages a snowtrail app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New].
[New] reads the Snowflake connection values and the OAuth token once
and fails with [snowtrail.ErrBadConfig] when any of them are missing.

[*Ranger.Session] opens the app's Snowflake session on its first call
and returns that same session on every call after.
Close it with [*Ranger.Shutdown].

# Configuration

A developer configures a snowtrail app through environment variables
and by passing [RangerOption]s to [New].
Options passed to [New] replace what environment variables would otherwise configure.

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - ENVIRONMENT: the environment the application is running in; cf. [snowtrail.Environment]
  - LOG_JSON: whether to log JSON in DEVELOPMENT; default: false
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [snowtrail.NewLogLevel]
  - SECRETS_AWS_ID: the name or ARN of the AWS Secrets Manager secret holding connection values
  - SECRETS_AWS_REGION: the AWS region that secret lives in; default: as resolved by the AWS SDK
  - SECRETS_BACKEND: where connection values are read from, one of env, file, aws or keyring; default: env
  - SECRETS_DOTENV: the dotenv file the env backend falls back to; default: .env
  - SECRETS_FILE: the TOML, YAML or JSON file the file backend reads; default: .streamlit/secrets.toml
  - SECRETS_KEYRING_SERVICE: the OS keyring service the keyring backend reads; default: snowtrail
  - SECRETS_SECTION: the table inside SECRETS_FILE holding connection values; default: the top level
  - SENTRY_DSN: the DSN errors are reported to in PRODUCTION, REVIEW and STAGING
  - SNOWFLAKE_TOKEN_PATH: the file holding the OAuth token; default: /snowflake/session/token

Connection values themselves are looked up under HOST, ACCOUNT, DATABASE, WAREHOUSE, SCHEMA and ROLE.
*/
package ranger

/*
Package secrets reads the values needed to reach Snowflake from a read-only key-value [Store].

Available stores:
  - [Map]: values held in memory
  - [EnvStore]: the process environment plus dotenv files
  - [FileStore]: a Streamlit-style secrets.toml, or YAML or JSON
  - [AWSStore]: one AWS Secrets Manager secret holding a JSON object
  - [KeyringStore]: the OS keychain

Every store reports a missing key with a [*NotFoundError]
and backend trouble with a [*BackendError].
*/
package secrets

package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

const awsBackend = "AWS Secrets Manager"

// SecretValueGetter is the slice of the Secrets Manager API AWSStore needs.
type SecretValueGetter interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore reads secrets from a single AWS Secrets Manager secret
// whose value is a JSON object of key-value pairs.
// The secret is fetched once when constructed.
type AWSStore struct {
	id   string
	vals map[string]string
}

// An AWSStoreOpt configures how an AWSStore reaches Secrets Manager.
type AWSStoreOpt func(*awsStoreConfig)

type awsStoreConfig struct {
	client SecretValueGetter
	region string
}

// WithSecretsClient uses client instead of one built from the default AWS configuration.
func WithSecretsClient(client SecretValueGetter) AWSStoreOpt {
	return func(c *awsStoreConfig) { c.client = client }
}

// WithRegion overrides the region resolved from the default AWS configuration.
func WithRegion(region string) AWSStoreOpt {
	return func(c *awsStoreConfig) { c.region = region }
}

// NewAWSStore fetches the secret identified by secretID, a name or ARN.
func NewAWSStore(ctx context.Context, secretID string, opts ...AWSStoreOpt) (*AWSStore, error) {
	if secretID == "" {
		return nil, &BackendError{
			Backend: awsBackend,
			Reason:  "no secret id",
			Fix:     "Set SECRETS_AWS_ID to the secret's name or ARN.",
		}
	}

	c := new(awsStoreConfig)
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		var loadOpts []func(*config.LoadOptions) error
		if c.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(c.region))
		}

		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, &BackendError{
				Backend: awsBackend,
				Reason:  "cannot load AWS configuration",
				Fix:     "Check AWS_REGION and your AWS credentials.",
				Err:     err,
			}
		}

		c.client = secretsmanager.NewFromConfig(cfg)
	}

	out, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})

	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return nil, &BackendError{
			Backend: awsBackend,
			Reason:  fmt.Sprintf("secret %s does not exist", secretID),
			Err:     err,
		}
	}

	if err != nil {
		return nil, &BackendError{
			Backend: awsBackend,
			Reason:  fmt.Sprintf("cannot fetch secret %s", secretID),
			Err:     err,
		}
	}

	vals, err := parseSecretString(aws.ToString(out.SecretString))
	if err != nil {
		return nil, &BackendError{
			Backend: awsBackend,
			Reason:  fmt.Sprintf("secret %s is not a JSON object", secretID),
			Fix:     `Store the values as {"HOST": "...", "ACCOUNT": "...", ...}.`,
			Err:     err,
		}
	}

	return &AWSStore{id: secretID, vals: vals}, nil
}

// Lookup returns the value for key.
// Empty values count as missing.
func (s *AWSStore) Lookup(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	val := s.vals[key]
	if val == "" {
		return "", &NotFoundError{Key: key, Backend: awsBackend}
	}

	return val, nil
}

// parseSecretString flattens a JSON object into strings.
// Nested objects and arrays are kept as their JSON text.
func parseSecretString(s string) (map[string]string, error) {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}

	vals := make(map[string]string, len(raw))
	for k, v := range raw {
		var str string
		if err := json.Unmarshal(v, &str); err == nil {
			vals[k] = str
			continue
		}

		if string(v) == "null" {
			continue
		}

		vals[k] = string(v)
	}

	return vals, nil
}

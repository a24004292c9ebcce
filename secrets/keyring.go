package secrets

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the service name secrets are stored under in the OS keychain.
const DefaultKeyringService = "snowtrail"

// KeyringStore reads secrets from the OS keychain,
// one entry per key under a single service name.
type KeyringStore struct {
	service string
}

// NewKeyringStore constructs a KeyringStore for service.
// An empty service uses DefaultKeyringService.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}

	return &KeyringStore{service: service}
}

// Lookup returns the value for key.
// Empty values count as missing.
func (s *KeyringStore) Lookup(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	val, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && val == "") {
		return "", &NotFoundError{Key: key, Backend: "keyring " + s.service}
	}

	if err != nil {
		return "", &BackendError{
			Backend: "keyring",
			Reason:  "cannot read from the OS keychain",
			Fix:     "On Linux, install and unlock libsecret, kwallet or pass.",
			Err:     err,
		}
	}

	return val, nil
}

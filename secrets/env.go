package secrets

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvStore reads secrets from the process environment,
// falling back to values parsed from dotenv files.
// The process environment wins, matching [godotenv.Load].
type EnvStore struct {
	dotenv map[string]string
}

// NewEnvStore constructs an EnvStore, parsing files once.
// Missing files are skipped; malformed files fail construction.
func NewEnvStore(files ...string) (*EnvStore, error) {
	s := &EnvStore{dotenv: make(map[string]string)}
	for _, file := range files {
		vals, err := godotenv.Read(file)
		var pe *fs.PathError
		if errors.As(err, &pe) && errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, &BackendError{
				Backend: "dotenv",
				Reason:  "cannot parse " + file,
				Fix:     "Each line must be KEY=value.",
				Err:     err,
			}
		}

		for k, v := range vals {
			s.dotenv[k] = v
		}
	}

	return s, nil
}

// Lookup returns the value for key.
// Empty values count as missing.
func (s *EnvStore) Lookup(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if val := os.Getenv(key); val != "" {
		return val, nil
	}

	if val := s.dotenv[key]; val != "" {
		return val, nil
	}

	return "", &NotFoundError{Key: key, Backend: "environment"}
}

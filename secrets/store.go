package secrets

import "context"

// A Store is a read-only key-value source of secrets.
type Store interface {
	// Lookup fetches the value stored under key.
	// A missing key returns a *NotFoundError.
	Lookup(ctx context.Context, key string) (string, error)
}

// A Map is a Store held in memory.
// Use it to inject configuration directly.
type Map map[string]string

// Lookup returns the value for key.
// Empty values count as missing.
func (m Map) Lookup(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	val, ok := m[key]
	if !ok || val == "" {
		return "", &NotFoundError{Key: key, Backend: "map"}
	}

	return val, nil
}

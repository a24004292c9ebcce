package secrets

import (
	"fmt"

	"github.com/xy-planning-network/snowtrail"
)

// NotFoundError indicates the key is not present in the store.
type NotFoundError struct {
	Key     string
	Backend string
}

func (e *NotFoundError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("secret %q not found in %s", e.Key, e.Backend)
	}
	return fmt.Sprintf("secret %q not found", e.Key)
}

// Is reports NotFoundError as a [snowtrail.ErrNotExist].
func (e *NotFoundError) Is(target error) bool { return target == snowtrail.ErrNotExist }

// BackendError wraps errors from secret backends with actionable context.
type BackendError struct {
	Backend string
	Reason  string
	Fix     string
	Err     error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Backend, e.Reason)
	if e.Fix != "" {
		msg += "\n\n  " + e.Fix
	}
	return msg
}

func (e *BackendError) Unwrap() error { return e.Err }

package orders

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the store and service. Callers distinguish
// retryable (ErrConflict, ErrUnavailable) from non-retryable failures with
// errors.Is.
var (
	ErrNotFound               = errors.New("order not found")
	ErrAlreadyExists          = errors.New("order already exists")
	ErrVersionConflict        = errors.New("version conflict")
	ErrConflict               = errors.New("conflict: concurrent updates, retry budget exhausted")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnavailable            = errors.New("storage unavailable")
	ErrInternal               = errors.New("internal error")
)

// ValidationError identifies the first offending field of an invalid request.
// No mutation is attempted when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

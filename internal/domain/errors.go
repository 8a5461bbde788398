package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Callers classify outcomes with
// errors.Is; wrapped messages carry the specifics.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCancelled is an outcome, not a failure: the operator (or an
	// empty cart) aborted the operation before anything was written.
	ErrCancelled = errors.New("cancelled")
)

// Cancelled wraps ErrCancelled with a reason.
func Cancelled(reason string) error {
	return fmt.Errorf("%w: %s", ErrCancelled, reason)
}

// IsCancelled reports whether err is the user-abort outcome.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }

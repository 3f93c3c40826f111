package engagement

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the operation requires a logged-in actor.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the actor lacks ownership or admin rights.
	ErrForbidden = errors.New("forbidden")
	// ErrPending means an optimistic mutation for the same post is still in
	// flight; the caller should wait for it to settle and retry.
	ErrPending = errors.New("another change to this post is still in flight")
)

// ValidationError reports a field that failed a local check. Validation runs
// before any store call, so a ValidationError guarantees nothing was mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

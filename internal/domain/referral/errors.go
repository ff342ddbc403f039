package referral

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for store operations.
var (
	// ErrStoreUnavailable means the backing table or worksheet cannot be
	// located. Fatal at startup.
	ErrStoreUnavailable = errors.New("backing store unavailable")

	// ErrStoreAuth means the store rejected our credentials. Fatal at startup.
	ErrStoreAuth = errors.New("backing store authentication failed")

	// ErrStoreWrite is a transport or permission failure on a write. Surfaced
	// per-operation, never retried automatically.
	ErrStoreWrite = errors.New("backing store write failed")

	// ErrRecordNotFound means no row carries the requested referral id.
	ErrRecordNotFound = errors.New("referral not found")

	// ErrFieldNotFound means the header row carries no such column name.
	ErrFieldNotFound = errors.New("field not found")

	// ErrAlreadyAcknowledged guards the one-shot No -> Yes transition.
	ErrAlreadyAcknowledged = errors.New("referral already acknowledged")

	// ErrValidation is the target for errors.Is on ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists the required fields missing from a request. The
// caller corrects the input and retries; no store call was made.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

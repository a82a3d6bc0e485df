package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a referenced user or skill does not exist.
type ErrNotFound struct {
	Resource string // "user", "skill"
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Resource, e.ID)
}

// ErrStoreUnavailable indicates the document store refused or timed out.
// Retryable at the request boundary; the engine never retries internally.
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

func (e *ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *ErrStoreUnavailable) Unwrap() error { return e.Err }

// ErrInvalidInput indicates a malformed request. Rejected before any state
// change.
type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return "invalid input: " + e.Reason
}

// ErrIntegrity indicates a stored profile violates a data invariant. The
// request aborts without writing; the document must be repaired out of band.
type ErrIntegrity struct {
	UserID string
	Err    error
}

func (e *ErrIntegrity) Error() string {
	return fmt.Sprintf("integrity violation for user %q: %v", e.UserID, e.Err)
}

func (e *ErrIntegrity) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsInvalidInput reports whether err is an ErrInvalidInput.
func IsInvalidInput(err error) bool {
	var ii *ErrInvalidInput
	return errors.As(err, &ii)
}

// IsStoreUnavailable reports whether err is an ErrStoreUnavailable.
func IsStoreUnavailable(err error) bool {
	var su *ErrStoreUnavailable
	return errors.As(err, &su)
}

// IsIntegrity reports whether err is an ErrIntegrity.
func IsIntegrity(err error) bool {
	var iv *ErrIntegrity
	return errors.As(err, &iv)
}

func invalidInputf(format string, args ...interface{}) error {
	return &ErrInvalidInput{Reason: fmt.Sprintf(format, args...)}
}

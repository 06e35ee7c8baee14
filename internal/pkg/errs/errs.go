// Package errs provides standardized error types for the order service.
//
// Every error kind follows the same pattern:
//   - a sentinel error variable (e.g. ErrObjectNotFound) used with errors.Is
//   - a struct type carrying the details of the failure
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The kinds map onto the failure taxonomy of the order lifecycle:
//   - ErrObjectNotFound: a referenced order or user does not exist
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: malformed input
//   - ErrForbidden: the actor lacks the capability for the operation
//   - ErrIllegalTransition: the requested status is unreachable from the current one
//   - ErrIllegalState: valid input, but the record is in the wrong state for it
//   - ErrConflict: a concurrent writer won the race, or a unique key already exists
//   - ErrStoreUnavailable: transient persistence failure, retryable by the caller
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrForbidden         = errors.New("forbidden")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrIllegalState      = errors.New("illegal state")
	ErrConflict          = errors.New("conflict")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// sanitize flattens multi-line values so they stay on a single log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

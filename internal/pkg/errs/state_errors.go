package errs

import "fmt"

// ForbiddenError reports an actor attempting an operation it has no capability for.
type ForbiddenError struct {
	Action string
	Reason string
}

func NewForbiddenError(action, reason string) *ForbiddenError {
	return &ForbiddenError{Action: action, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrForbidden, e.Action, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// IllegalTransitionError reports a status change that the state machine does not allow.
type IllegalTransitionError struct {
	From string
	To   string
}

func NewIllegalTransitionError(from, to fmt.Stringer) *IllegalTransitionError {
	return &IllegalTransitionError{From: from.String(), To: to.String()}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot change status from %s to %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// IllegalStateError reports an operation on a record whose current state does not permit it.
type IllegalStateError struct {
	ParamName string
	Actual    string
	Reason    string
}

func NewIllegalStateError(paramName, actual, reason string) *IllegalStateError {
	return &IllegalStateError{ParamName: paramName, Actual: actual, Reason: reason}
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("%s: %s is %s, %s", ErrIllegalState, e.ParamName, e.Actual, e.Reason)
}

func (e *IllegalStateError) Unwrap() error {
	return ErrIllegalState
}

// ConflictError reports a lost optimistic-concurrency race or a duplicate unique key.
type ConflictError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewConflictError(paramName string, id any) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id}
}

func NewConflictErrorWithCause(paramName string, id any, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrConflict, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// StoreUnavailableError wraps an infrastructure failure of the backing store.
// The original cause stays reachable through Cause, not through Unwrap.
type StoreUnavailableError struct {
	Operation string
	Cause     error
}

func NewStoreUnavailableError(operation string, cause error) *StoreUnavailableError {
	return &StoreUnavailableError{Operation: operation, Cause: cause}
}

func (e *StoreUnavailableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrStoreUnavailable, e.Operation), e.Cause)
}

func (e *StoreUnavailableError) Unwrap() error {
	return ErrStoreUnavailable
}

package apperrors

import "fmt"

// ValidationError reports malformed or oversized caller input. It maps to a
// 400 response and is never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DependencyError reports that the reference-data store or session store was
// unreachable or returned a failure. Safe for the caller to retry with backoff.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *DependencyError) Unwrap() error { return e.Err }

// Dependency wraps a datastore error with the operation that failed.
func Dependency(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}

// AuthorizationError reports that a role guard rejected the actor.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// Authorization builds an AuthorizationError from a format string.
func Authorization(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports that a transition guard rejected the session's
// current state (including replays of an already-applied transition).
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidState builds an InvalidStateError from a format string.
func InvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown session, condition or symptom id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }

// NotFound builds a NotFoundError for the given entity and id.
func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

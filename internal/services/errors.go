package services

import (
	"errors"
	"fmt"

	"yatube/internal/store"
)

// Error kinds. Every error returned by Blog matches one of these with
// errors.Is, or is an unexpected storage failure.
var (
	ErrValidation             = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrConflict               = errors.New("conflict")
)

// ValidationError reports input the caller can correct.
type ValidationError struct {
	Field  string // The input field at fault, e.g. "text"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string // The type of resource (e.g., "post", "group")
	Key      string // The id, slug or username that was looked up
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AuthorizationError reports an actor acting on a resource they do not own.
type AuthorizationError struct {
	ActorID uint
	Action  string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %d is not allowed to %s", e.ActorID, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrForbidden }

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// notFound maps a store miss to NotFoundError and passes anything else through.
func notFound(err error, resource, key string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return err
}

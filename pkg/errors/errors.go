package errors

import "fmt"

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when a credential is missing or invalid
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

// ErrInvalidStateTransition is returned when a status change is not allowed
type ErrInvalidStateTransition struct {
	Entity string
	From   string
	To     string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid %s state transition from %s to %s", e.Entity, e.From, e.To)
}

// ErrConflict is returned when the request collides with the current state
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrValidation is returned when input is well-formed but semantically wrong
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrUpstream is returned when a downstream service rejects or fails a call
type ErrUpstream struct {
	Service string
	Err     error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

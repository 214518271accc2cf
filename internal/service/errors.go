package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP layer maps each kind to one status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a classified failure whose Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind and message, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// Domain errors for auth and item flows.
var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Forbidden"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Not Found"}
	ErrInvalidID          = &Error{Kind: KindValidation, Message: "Invalid id"}
	ErrUserExists         = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrBodyRequired       = &Error{Kind: KindValidation, Message: "Body is required"}
	ErrBodyNotObject      = &Error{Kind: KindValidation, Message: "Body must be a JSON object."}
	ErrNoUpdateFields     = &Error{Kind: KindValidation, Message: "No valid fields to update"}
)

// Validation returns a 400-class error with a field-specific message.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Internal wraps an unexpected failure. Its message is never shown to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}

// KindOf reports the kind of err; unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage is the client-facing text for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal Server Error"
}

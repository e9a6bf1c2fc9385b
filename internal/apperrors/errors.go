// Package apperrors defines the error kinds used across the service layer
// and their mapping to HTTP status codes. Handlers attach typed errors to the
// gin context; the error middleware renders them into the standard envelope.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// BadRequest is a client-caused failure: malformed input or a
	// business-rule rejection such as a reused bank reference.
	BadRequest Kind = iota + 1
	// Unauthenticated is an auth failure (missing, stale, or invalid
	// credentials).
	Unauthenticated
	// NotFound indicates a missing record.
	NotFound
	// Conflict indicates a uniqueness violation detected at write time.
	Conflict
	// PartialCreation indicates the meter-validation sequence failed after
	// some records were already created.
	PartialCreation
	// Internal is everything unexpected.
	Internal
)

// Error is a typed application error.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error with a user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a typed error wrapping an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf extracts the user-facing message of err. Internal errors get a
// generic message so details are not leaked to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal server error"
}

// StatusOf maps an error kind to an HTTP status code.
func StatusOf(kind Kind) int {
	switch kind {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case PartialCreation, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

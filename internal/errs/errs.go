// Package errs defines the error taxonomy shared by stores and handlers so
// that HTTP status mapping happens in exactly one place.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies an application error
type Kind int

// Error kinds and the HTTP status each one maps to
const (
	Validation     Kind = iota + 1 // Missing or malformed input → 400
	Conflict                       // Uniqueness violation → 409
	Authentication                 // Bad credentials or token → 401
	Authorization                  // Role insufficient → 403
	NotFound                       // Missing record → 404
	Invariant                      // Correctness guard tripped → 400
)

// Error carries a kind and a message safe to return to the client
type Error struct {
	Kind    Kind   // Classification
	Message string // Human-readable, client-safe message
	Err     error  // Optional underlying cause
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error of the given kind
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an application error of the given kind around a cause
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an application error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Status maps an error to its HTTP status code. Anything outside the
// taxonomy is a server fault.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Invariant:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Errors outside the
// taxonomy get a generic message so internals never leak to the client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// Package apperr holds the expected failures a service can report to a caller.
// Anything that is not an *Error is treated as an infrastructure failure.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an expected failure.
type Kind int

const (
	Validation Kind = iota + 1 // missing required input
	Conflict                   // duplicate resource
	Auth                       // bad credentials or token
	Forbidden                  // identity does not match the requested owner
)

// Error is an expected failure with a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status maps the kind to an HTTP status code.
// Conflict is a 400, matching the register endpoint's contract.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func NewValidation(msg string) *Error { return &Error{Kind: Validation, Message: msg} }
func NewConflict(msg string) *Error   { return &Error{Kind: Conflict, Message: msg} }
func NewAuth(msg string) *Error       { return &Error{Kind: Auth, Message: msg} }
func NewForbidden(msg string) *Error  { return &Error{Kind: Forbidden, Message: msg} }

// As reports whether err is (or wraps) an *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

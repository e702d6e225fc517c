// Package apperr defines request-scoped application errors that carry an
// HTTP status alongside a user-facing message. These are policy rejections,
// not transient faults; anything else surfaces as a 500.
package apperr

import "errors"

// Error is a request-scoped failure with an associated HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New creates an application error.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// From extracts an *Error from err's chain, if present.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

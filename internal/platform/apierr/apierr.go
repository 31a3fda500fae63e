// Package apierr carries an HTTP status and a stable machine-readable
// code across service boundaries. Services return *Error only for
// conditions callers must act on (missing rows, bad input, dead
// invites); everything else stays a plain wrapped error and surfaces as
// a 500 at the HTTP layer.
package apierr

import (
	"errors"
	"fmt"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From extracts the *Error from err's chain. The second return is false
// when the chain carries no status, meaning the caller should treat the
// failure as internal.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

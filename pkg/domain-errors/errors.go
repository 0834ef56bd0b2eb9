// Package domainerrors defines coded errors that cross the service boundary.
//
// Services return these; the transport layer translates codes into HTTP
// statuses. Codes classify the failure for the caller, messages explain it
// for a human. Infrastructure facts (pkg/platform/sentinel) are wrapped into
// coded errors at the service layer so stores stay transport-agnostic.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and the transport layer.
type Code string

const (
	// CodeBadRequest marks malformed or constraint-violating input. The
	// command is rejected before any mutation occurs.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a reference to an aggregate or sub-entity that
	// does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a command that is inapplicable to the aggregate's
	// current state. The message names the state for caller diagnosis.
	CodeConflict Code = "conflict"
	// CodeTimeout marks an operation aborted by context cancellation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks unexpected infrastructure failures. Messages are
	// not shown to external callers.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. It optionally wraps a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

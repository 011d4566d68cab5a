// Package bytekverr provides structured, wrappable errors for everything
// outside the wire protocol: configuration loading, logger setup, and
// listener startup. The wire protocol's own error kinds (spec.md §7) are
// textual responses, not Go errors, and never flow through this package.
package bytekverr

import (
	"errors"
	"fmt"
)

// Code is a domain-specific error code.
type Code string

const (
	// CodeInvalidConfig indicates configuration failed validation.
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// CodeConfigLoadFailed indicates a config file could not be read or
	// parsed.
	CodeConfigLoadFailed Code = "CONFIG_LOAD_FAILED"

	// CodeListenFailed indicates the server could not bind or listen on
	// its configured address.
	CodeListenFailed Code = "LISTEN_FAILED"

	// CodeLoggingFailed indicates logger initialization or teardown
	// failed.
	CodeLoggingFailed Code = "LOGGING_FAILED"

	// CodeInternal indicates an unexpected internal error.
	CodeInternal Code = "INTERNAL"
)

// Error is a structured error carrying a Code, a message, an optional
// wrapped cause, and optional key/value context for diagnostics.
type Error struct {
	code    Code
	msg     string
	cause   error
	context map[string]any
}

// New creates an Error with no wrapped cause.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(cause error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, cause: cause}
}

// WithContext attaches a key/value pair for diagnostics and returns e for
// chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any, 1)
	}
	e.context[key] = value
	return e
}

// Code returns the error's code.
func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap supports errors.Is and errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsCode reports whether err is a *Error (at any point in its chain) with
// the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

package domainerrors

import "errors"

// Code represents a failure category independent of transport layer.
// These codes describe what went wrong in application terms, not HTTP terms.
type Code string

const (
	CodeValidation Code = "validation_failed"
	CodeAuth       Code = "auth_failed"
	CodeNetwork    Code = "network_error"
	CodeNotFound   Code = "not_found"
	CodeDuplicate  Code = "duplicate"
	CodeInternal   Code = "internal_error"
	CodeBadRequest Code = "bad_request"

	// Identity provider error codes, normalized to the convention the UI
	// messages key off.
	CodeInvalidCredentials Code = "auth/invalid-credential"
	CodeEmailInUse         Code = "auth/email-already-in-use"
	CodeWeakPassword       Code = "auth/weak-password"
	CodeInvalidEmail       Code = "auth/invalid-email"
	CodeUserNotFound       Code = "auth/user-not-found"
)

// Error wraps application or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across client, store, and page layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new coded error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new coded error wrapping an existing error.
// If the wrapped error already carries a code, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code from an error chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

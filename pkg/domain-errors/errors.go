// Package domainerrors defines the coded error type services return across
// the workflow boundary. Stores return sentinel errors for infrastructure
// facts; services translate them into coded errors here so transport can map
// codes to HTTP statuses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and caller retry policy.
type Code string

const (
	// CodeValidation marks caller input that violates a stated constraint.
	// Never retried automatically; the caller must correct the input.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks malformed primitives (bad UUID, unknown enum).
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks requests that could not be decoded at all.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a referenced entity that is absent or inaccessible.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a write that lost to current state (status no longer
	// pending, duplicate credential, second pending submission).
	CodeConflict Code = "conflict"
	// CodePartialIssuance marks a verified identity record left without its
	// credential. Retrying the full operation is unsafe; use the repair path.
	CodePartialIssuance Code = "partial_issuance"
	CodeUnauthorized    Code = "unauthorized"
	CodeForbidden       Code = "forbidden"
	CodeTimeout         Code = "timeout"
	// CodeUnavailable marks transient collaborator failures (object storage,
	// database); the whole operation is safe to re-trigger.
	CodeUnavailable Code = "unavailable"
	CodeInternal    Code = "internal"
)

// Error is a coded domain error. Construct via New or Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches another coded error by code and message, so errors.Is works
// against a freshly constructed comparison value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is uncoded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that crosses a package boundary wraps exactly one
// of these so callers can branch with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")

	// ErrUnavailable marks storage failures expected to clear up on their
	// own (connectivity, timeouts, exhausted pools). It is an Internal kind.
	ErrUnavailable = fmt.Errorf("%w: storage unavailable", ErrInternal)
)

// Machine-readable codes returned to API clients.
const (
	CodeValidation   = "validation_error"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal_error"
)

// Error pairs a kind with a caller-safe message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap builds an *Error of the given kind.
func Wrap(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// Internal wraps an unexpected failure. The cause is kept for logs but the
// message returned to clients stays generic.
func Internal(msg string, cause error) error {
	return &Error{Kind: ErrInternal, Message: msg, Err: cause}
}

// Unavailable wraps a transient storage failure.
func Unavailable(msg string, cause error) error {
	return &Error{Kind: ErrUnavailable, Message: msg, Err: cause}
}

// Code maps err to its stable machine-readable code. Unknown errors are
// reported as internal.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

// Message returns the caller-safe message of err. Internal failures never
// leak their cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if Code(err) == CodeInternal {
		return "internal server error"
	}
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}

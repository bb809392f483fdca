package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to callers of the service.
type ErrorKind string

// Error kinds. Capacity failures are reported as BadRequest.
const (
	KindNotFound   ErrorKind = "NotFound"
	KindBadRequest ErrorKind = "BadRequest"
	KindConflict   ErrorKind = "Conflict"
	KindInternal   ErrorKind = "Internal"
)

// Sentinel errors for errors.Is comparisons against an *Error of the same kind.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrBadRequest = &Error{Kind: KindBadRequest}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrInternal   = &Error{Kind: KindInternal}
)

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NotFoundError builds a NotFound error.
func NotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// BadRequestError builds a BadRequest error.
func BadRequestError(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ConflictError builds a Conflict error.
func ConflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InternalError wraps an unexpected fault. The cause is kept for logging and
// never rendered in the message.
func InternalError(cause error) error {
	return &Error{Kind: KindInternal, Message: "an internal error occurred", cause: cause}
}

// KindOf returns the kind of err, or Internal for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Package apperr defines the error taxonomy shared by repos, services and
// handlers. Every error that crosses a service boundary is one of the kinds
// below; anything else is treated as an internal storage fault.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: malformed or missing input, no state change.
	KindValidation
	// KindConflict: stale row version, timer already running, entry already
	// closed. Carries the current authoritative state in Current so the
	// caller can reconcile instead of blindly retrying.
	KindConflict
	KindNotFound
	KindForbidden
	KindInternal
)

type Error struct {
	Kind Kind
	Code string
	Err  error
	// Current holds the authoritative state for conflicts (the stored row,
	// the open time entry). Nil for other kinds.
	Current interface{}
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
	return "application error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

func Validation(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Err: fmt.Errorf(format, args...)}
}

func NotFound(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: code, Err: fmt.Errorf(format, args...)}
}

func Forbidden(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Code: code, Err: fmt.Errorf(format, args...)}
}

// Conflict builds a conflict error carrying the current authoritative state.
func Conflict(code string, current interface{}, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Current: current, Err: fmt.Errorf(format, args...)}
}

// Internal wraps an unrecognized storage or I/O fault. The wrapped detail is
// logged server-side; handlers only echo it in development mode.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Err: err}
}

// From extracts an *Error from err's chain, wrapping unrecognized errors as
// internal faults so handlers always have a kind to translate.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

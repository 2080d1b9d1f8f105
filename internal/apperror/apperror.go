// Package apperror defines the typed failures returned by every service.
//
// A service never returns a bare storage error: anything that is not
// already an *Error is wrapped as KindInternal so callers can tell domain
// failures apart from faults in the store.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// Error is a classified failure. Code is a stable machine-readable
// identifier, Message a short human-readable description.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Kind sentinels. errors.Is(err, ErrNotFound) holds for every not-found
// failure regardless of its code.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInternal        = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code, or on kind alone when the target carries no code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Code == "" || e.Code == t.Code
}

// Withf returns a copy of e with a formatted message, keeping kind and code.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
	}
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func InvalidArgument(code, message string) *Error {
	return New(KindInvalidArgument, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// Internal classifies err as a storage or infrastructure fault. Errors that
// are already classified pass through unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{
		Kind:    KindInternal,
		Code:    "internal_error",
		Message: "storage failure",
		Err:     err,
	}
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf reports the code of err, or "internal_error" when unclassified.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil && appErr.Code != "" {
		return appErr.Code
	}
	return "internal_error"
}

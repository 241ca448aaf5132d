// Package apperr classifies marketplace failures so the HTTP layer can map
// them to status codes without knowing every domain sentinel.
package apperr

import "errors"

type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindPermission      Kind = "permission"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindDeclined        Kind = "declined"
	KindExternal        Kind = "external"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches kind and a user-facing message to err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error      { return New(KindValidation, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Permission(message string) *Error      { return New(KindPermission, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Declined(message string) *Error        { return New(KindDeclined, message) }

// KindOf reports the outermost classified kind in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message for err, or fallback when err is
// not classified.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure so the HTTP layer can map it to a status code
// without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is the client's fault: a required field is missing or
	// malformed. Nothing was written before the error.
	KindValidation
	// KindUnavailable means an optional capability (a renderer) is not
	// present in this runtime. The client must pick a different format.
	KindUnavailable
	// KindNotFound covers absent records, clubs and files.
	KindNotFound
	// KindAuth covers missing, invalid and expired tokens, and tokens whose
	// principal no longer exists.
	KindAuth
	// KindForbidden means authenticated but lacking the relational permission.
	KindForbidden
	// KindIO covers disk write/read/stream failures.
	KindIO
	// KindPersistence means the store write failed after a file was already
	// written; the caller performs best-effort file cleanup.
	KindPersistence
)

// Error carries a Kind alongside the message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Authf(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Msg: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func Unavailablef(format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from anywhere in the error chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// StatusOf maps an error chain to an HTTP status. Unclassified errors are
// treated as internal failures.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation, KindUnavailable:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

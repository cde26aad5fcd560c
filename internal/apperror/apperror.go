// Package apperror classifies failures into the categories the HTTP layer
// and clients act on: not found, conflict, validation, transient store
// unavailability, and internal errors.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind enumerates supported application error categories.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// Option mutates an Error during construction.
type Option func(*Error)

// WithCause attaches an underlying error.
func WithCause(err error) Option {
	return func(e *Error) {
		e.cause = err
	}
}

// New constructs an Error with the supplied kind and message.
func New(kind Kind, message string, opts ...Option) *Error {
	if message == "" {
		message = string(kind)
	}
	e := &Error{kind: kind, message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Kind returns the error category.
func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

// Message returns the client-safe message without the cause.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// StatusCode resolves the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, opts ...Option) *Error {
	return New(KindValidation, message, opts...)
}

func NotFound(message string, opts ...Option) *Error {
	return New(KindNotFound, message, opts...)
}

func Conflict(message string, opts ...Option) *Error {
	return New(KindConflict, message, opts...)
}

func Unavailable(message string, opts ...Option) *Error {
	return New(KindUnavailable, message, opts...)
}

func Internal(message string, opts ...Option) *Error {
	return New(KindInternal, message, opts...)
}

// From returns the *Error in err's chain. Transient store failures become
// KindUnavailable and anything else unrecognised becomes KindInternal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if IsTransient(err) {
		return Unavailable("service temporarily unavailable, please retry", WithCause(err))
	}
	return Internal("internal error", WithCause(err))
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind == kind
	}
	return false
}

// IsTransient reports whether err is a database failure worth retrying:
// lost connections, serialization failures, deadlocks, admin shutdowns and
// timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "53300", "57P01", "57P02", "57P03":
			return true
		}
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
	}
	return false
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return isPgCode(err, "23505", constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// optionally restricted to the named constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	return isPgCode(err, "23503", constraint)
}

func isPgCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

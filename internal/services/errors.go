package services

import (
	"errors"
	"net/http"
)

// Kind is the closed set of failure categories a service call can report.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindAuth
	KindInternal
)

// Kind sentinels for errors.Is checks.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("unauthorized")
	ErrInternal   = errors.New("internal error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindAuth:
		return ErrAuth
	default:
		return ErrInternal
	}
}

// EC returns the wire-level result code for the kind. Zero is reserved for
// success.
func (k Kind) EC() int {
	switch k {
	case KindValidation:
		return 1
	case KindAuth:
		return 2
	case KindConflict:
		return -1
	case KindNotFound:
		return -3
	default:
		return -2
	}
}

// HTTPStatus returns the transport status the boundary maps the kind to.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a structured service failure carrying its kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel, so errors.Is(err, ErrNotFound) works on any
// not-found *Error.
func (e *Error) Is(target error) bool { return target == e.Kind.sentinel() }

// NewValidationError reports missing or malformed input.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFoundError reports an absent subject entity.
func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NewAuthError reports bad credentials or a missing identity.
func NewAuthError(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// NewInternalError wraps an unexpected persistence or runtime fault.
func NewInternalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind from any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError so callers can react without parsing messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
)

// HTTPStatus returns the status code used when the kind reaches the API layer.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether repeating the same request later may succeed.
// A conflict depends on other bookings and can clear; a validation error cannot.
func (k Kind) Retryable() bool {
	return k == KindConflict
}

// AppError is an expected, caller-facing failure.
type AppError struct {
	Kind    Kind
	Message string
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func (e *AppError) Error() string {
	return e.Message
}

// Code returns the HTTP status code for the error.
func (e *AppError) Code() int {
	return e.Kind.HTTPStatus()
}

// KindOf extracts the Kind of the first AppError in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

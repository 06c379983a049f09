package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for callers that do not care about the exact sentinel.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAccessDenied
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Kind    Kind   // Business kind derived from Code
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Kind:    kindFromCode(code),
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Kind:    kindFromCode(code),
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf reports the Kind of err. Errors that are not an AppError are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func kindFromCode(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return KindAccessDenied
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

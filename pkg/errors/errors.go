package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind int

// Error kinds
const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindStore
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	case KindTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
// Conflicts and store failures are reported as 400, not 409.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindStore:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Sensitive reports whether the details of this error must be hidden outside development
func (e *AppError) Sensitive() bool {
	return e.Kind == KindStore || e.Kind == KindUnknown
}

func Validation(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: err}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Err: err}
}

// TooLarge reports a request body over the configured limit
func TooLarge(limit int64, err error) *AppError {
	return &AppError{Kind: KindTooLarge, Message: fmt.Sprintf("request body exceeds %d bytes", limit), Err: err}
}

func Store(err error) *AppError {
	return &AppError{Kind: KindStore, Message: "database error", Err: err}
}

func Unknown(err error) *AppError {
	return &AppError{Kind: KindUnknown, Message: "internal server error", Err: err}
}

// WithDetails attaches client-facing details
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// KindOf returns the kind of the first AppError in err's chain
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries an AppError of the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// From converts any error into an AppError, defaulting to KindUnknown
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unknown(err)
}

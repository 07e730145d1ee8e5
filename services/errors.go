package services

import (
	"errors"
	"net/http"

	"precastcatalog/configurator"
	"precastcatalog/repository"
)

var (
	// ErrValidation is returned when input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned by Login.
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	// ErrUnauthenticated is returned when no valid session backs a request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller lacks a permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a user, project, cart item or quotation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an email is already registered.
	ErrConflict = errors.New("conflict")
)

// Error carries a user-facing message on top of one of the sentinels above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error { return &Error{Kind: kind, Msg: msg} }

func invalid(msg string) error   { return newError(ErrValidation, msg) }
func forbidden(msg string) error { return newError(ErrForbidden, msg) }
func notFound(msg string) error  { return newError(ErrNotFound, msg) }
func conflict(msg string) error  { return newError(ErrConflict, msg) }

// HTTPError is an error translated for the transport layer.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string { return e.Message }

// MapErrorToHTTP maps domain errors to status codes. Unknown errors become a 500 with a
// generic message so storage details never leak to clients.
func MapErrorToHTTP(err error) *HTTPError {
	msg := err.Error()
	var typed *Error
	if errors.As(err, &typed) {
		msg = typed.Msg
	}

	switch {
	case errors.Is(err, ErrValidation):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: msg, Code: "VALIDATION_ERROR"}
	case errors.Is(err, configurator.ErrUnknownShape):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: msg, Code: "UNKNOWN_SHAPE"}
	case errors.Is(err, ErrInvalidCredentials):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: ErrInvalidCredentials.Error(), Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, ErrUnauthenticated):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: msg, Code: "UNAUTHENTICATED"}
	case errors.Is(err, ErrForbidden):
		return &HTTPError{StatusCode: http.StatusForbidden, Message: msg, Code: "FORBIDDEN"}
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: msg, Code: "NOT_FOUND"}
	case errors.Is(err, ErrConflict):
		return &HTTPError{StatusCode: http.StatusConflict, Message: msg, Code: "CONFLICT"}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error", Code: "INTERNAL_ERROR"}
	}
}

package utils

import "net/http"

// AppError is an error that carries an HTTP status code and whether the
// failure is operational (safe to show the client) or a programming error.
type AppError struct {
	StatusCode  int
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports invalid client input (400).
func NewValidationError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Operational: true}
}

// NewAuthError reports a failed or missing authentication (401).
func NewAuthError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message, Operational: true}
}

// NewForbiddenError reports insufficient permissions (403).
func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: message, Operational: true}
}

// NewNotFoundError reports a missing resource (404).
func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message, Operational: true}
}

// NewConflictError reports a uniqueness conflict. Status is 400 to keep
// the response contract of the frontend clients.
func NewConflictError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Operational: true}
}

// NewUnsupportedMediaError reports a file whose MIME type does not match
// its upload field (415).
func NewUnsupportedMediaError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnsupportedMediaType, Message: message, Operational: true}
}

// NewInternalError wraps an unexpected failure. It is not operational, so
// the client only ever sees a generic message in production.
func NewInternalError(err error) *AppError {
	return &AppError{
		StatusCode:  http.StatusInternalServerError,
		Message:     "Something went very wrong!",
		Operational: false,
		Err:         err,
	}
}

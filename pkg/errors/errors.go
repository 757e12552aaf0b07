package errors

import (
	stderrors "errors"
	"fmt"
)

// CodeSuccess response code for successful calls
const (
	CodeSuccess = 200
)

// HTTP-level error codes (400-599)
const (
	CodeInvalidParam  = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeConflict      = 409
	CodeUnprocessable = 422
	CodeTooMany       = 429
	CodeServerError   = 500
)

// Sentinel errors used by the service layer.
var (
	ErrNotFound          = stderrors.New("not_found")
	ErrConflict          = stderrors.New("conflict")
	ErrInvalidTransition = stderrors.New("invalid_status_transition")
	ErrValidation        = stderrors.New("validation_failed")
	ErrForbidden         = stderrors.New("forbidden")
)

// AppError carries a response code and a public message from a service up to
// the handler that renders it.
type AppError struct {
	Code    int
	Message string
	Details interface{}
	Err     error
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

func New(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Err: ErrNotFound}
}

func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Err: ErrConflict}
}

func BadRequest(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, Err: ErrForbidden}
}

// Validation wraps per-field messages.
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Code: CodeUnprocessable, Message: message, Details: fields, Err: ErrValidation}
}

// As is a shortcut for errors.As on *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrEmptyOptions       = errors.New("empty retouch options")
	ErrQuotaInUse         = errors.New("quota in use")
	ErrLocked             = errors.New("project locked")
	ErrRemoteFailure      = errors.New("remote operation failed")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
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

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid email or password", Err: ErrInvalidCredentials}
}

func QuotaExceeded(msg string) *AppError {
	return &AppError{Code: "QUOTA_EXCEEDED", Message: msg, Err: ErrQuotaExceeded}
}

func EmptyOptions(msg string) *AppError {
	return &AppError{Code: "EMPTY_OPTIONS", Message: msg, Err: ErrEmptyOptions}
}

func QuotaInUse(msg string) *AppError {
	return &AppError{Code: "QUOTA_IN_USE", Message: msg, Err: ErrQuotaInUse}
}

func Locked(msg string) *AppError {
	return &AppError{Code: "LOCKED", Message: msg, Err: ErrLocked}
}

func RemoteFailure(msg string, err error) *AppError {
	return &AppError{Code: "REMOTE_FAILURE", Message: msg, Err: fmt.Errorf("%w: %v", ErrRemoteFailure, err)}
}

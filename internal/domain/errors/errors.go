package errors

import (
	"net/http"

	"hub/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches on the business error code so that copies made by WithDetails
// still compare equal to the sentinel they came from.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Session errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"invalid username, email or password",
		"",
	)

	ErrAccountDeactivated = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_DEACTIVATED",
		"account has been deactivated",
		"",
	)

	ErrNoSession = NewBaseError(
		http.StatusUnauthorized,
		"NO_SESSION",
		"no active session",
		"",
	)

	ErrActorAlreadyExists = NewBaseError(
		http.StatusConflict,
		"ACTOR_ALREADY_EXISTS",
		"username or email already registered",
		"",
	)

	ErrPermissionDenied = NewBaseError(
		http.StatusForbidden,
		"PERMISSION_DENIED",
		"permission denied",
		"",
	)

	// Remote store errors
	ErrWriteFailed = NewBaseError(
		http.StatusBadGateway,
		"WRITE_FAILED",
		"remote write failed",
		"",
	)

	ErrLoadFailed = NewBaseError(
		http.StatusBadGateway,
		"LOAD_FAILED",
		"remote read failed",
		"",
	)

	ErrOfflineCacheUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"OFFLINE_CACHE_UNAVAILABLE",
		"offline cache unavailable",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)
)

// RemoteError reports a failed call to the remote document store. It matches
// its kind (ErrWriteFailed, ErrLoadFailed, ...) with errors.Is and unwraps to
// the transport cause.
type RemoteError struct {
	kind  *BaseError
	op    string
	cause error
}

// NewRemoteError creates a remote store error of the given kind
func NewRemoteError(kind *BaseError, op string, cause error) *RemoteError {
	return &RemoteError{
		kind:  kind,
		op:    op,
		cause: cause,
	}
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.cause == nil {
		return e.op + ": " + e.kind.message
	}

	return e.op + ": " + e.kind.message + ": " + e.cause.Error()
}

// Unwrap returns the transport cause
func (e *RemoteError) Unwrap() error {
	return e.cause
}

// Is matches the error kind
func (e *RemoteError) Is(target error) bool {
	return e.kind.Is(target)
}

// Op returns the failed operation name
func (e *RemoteError) Op() string {
	return e.op
}

// HTTPCode returns the HTTP status code
func (e *RemoteError) HTTPCode() int {
	return e.kind.httpCode
}

// ErrorCode returns the business error code
func (e *RemoteError) ErrorCode() string {
	return e.kind.errorCode
}

// Message returns the user-friendly error message
func (e *RemoteError) Message() string {
	return e.kind.message
}

// Details returns detailed error information
func (e *RemoteError) Details() string {
	if e.cause == nil {
		return e.op
	}

	return e.op + ": " + e.cause.Error()
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the typed error every procedure call fails with once it
// reaches a transport. Code classifies the failure; Cause keeps the original
// error for diagnostics and is never serialized.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the call can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	return e.WithDetails(map[string]any{key: value})
}

// New creates an AppError whose status and retryability derive from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: HTTPStatusFor(code),
		Retryable:  IsRetryableCode(code),
	}
}

// Wrap creates an AppError for code that keeps cause. An empty message
// falls back to the cause's own message.
func Wrap(code ErrorCode, cause error, message string) *AppError {
	if message == "" && cause != nil {
		message = MessageOf(cause)
	}
	return New(code, message).WithCause(cause)
}

// --- Constructors ---

// BadRequest creates an AppError for raw input the procedure refused.
func BadRequest(message string) *AppError {
	if message == "" {
		message = "Bad request."
	}
	return New(ErrCodeBadRequest, message)
}

// Validation creates an AppError for field-level validation failures.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// NotFound creates an AppError for an unknown procedure path.
func NotFound(path string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("No procedure found on path %q.", path)).
		WithDetail("path", path)
}

// MethodNotSupported creates an AppError for a path registered under another type.
func MethodNotSupported(path, procedureType string) *AppError {
	return New(ErrCodeMethodNotSupported, fmt.Sprintf("Procedure %q does not support %s calls.", path, procedureType)).
		WithDetails(map[string]any{"path": path, "type": procedureType})
}

// Unauthorized creates an AppError for an unauthenticated caller.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason)
}

// Forbidden creates an AppError for a caller lacking permission.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return New(ErrCodeForbidden, reason)
}

// Timeout creates an AppError for a call that exceeded its deadline.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.").
		WithDetail("operation", operation)
}

// RateLimited creates an AppError for too many calls.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.")
}

// Internal creates an AppError for an internal failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").
		WithCause(cause)
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// From returns err as an AppError, classifying unknown errors as internal.
// It returns nil for a nil error.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// MessageOf returns the human-readable message of err: the Message of an
// AppError, or err.Error() otherwise.
func MessageOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

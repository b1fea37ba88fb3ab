package errors

import "net/http"

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors
const (
	// ErrCodeBadRequest indicates the raw input was rejected by the procedure's parser.
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	// ErrCodeInvalidInput indicates a validator rejected one or more fields.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates no procedure (or resource) exists at the requested path.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeMethodNotSupported indicates the procedure exists but not for the requested type.
	ErrCodeMethodNotSupported ErrorCode = "METHOD_NOT_SUPPORTED"
)

// Authentication/Authorization errors
const (
	// ErrCodeUnauthorized indicates the caller is not authenticated.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the caller may not perform the call.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// Availability errors (retryable)
const (
	// ErrCodeTimeout indicates the call did not complete before its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the caller exceeded its call budget.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// ErrCodeInternal indicates an internal error, including malformed chain results.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:     true,
	ErrCodeRateLimited: true,
}

var httpStatuses = map[ErrorCode]int{
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeMethodNotSupported: http.StatusMethodNotAllowed,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// HTTPStatusFor returns the HTTP status a transport should use for code.
// Unknown codes map to 500.
func HTTPStatusFor(code ErrorCode) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

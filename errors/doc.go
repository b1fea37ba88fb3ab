// Package errors provides the typed error taxonomy of rpckit.
// Every failure that leaves a procedure call is, or is normalized into, an
// AppError carrying an ErrorCode, an HTTP status hint, retryability and an
// optional cause, serialized following RFC 7807.
package errors

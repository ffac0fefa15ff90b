package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures across the platform.
type ErrorCode string

// Turn-level error codes. Invalid routing state and classification ambiguity
// are deliberately absent: both are recovered locally (fallback agent,
// default step) and never surfaced as errors.
const (
	// ErrMissingTurnData marks a turn that arrived without a conversation
	// identity or without human content. The turn is logged and dropped.
	ErrMissingTurnData ErrorCode = "MISSING_TURN_DATA"

	// ErrRetrievalFailed marks a fact or dedup store call that failed.
	ErrRetrievalFailed ErrorCode = "RETRIEVAL_FAILED"

	// ErrGenerationFailed marks an answer generator call that failed.
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"

	// ErrPersistenceFailed marks a state load/save failure. The previously
	// persisted state remains authoritative.
	ErrPersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)

// Upstream dependency error codes, aligned with HTTP status mapping.
const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrForbidden       ErrorCode = "FORBIDDEN"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
	ErrUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrUpstreamError   ErrorCode = "UPSTREAM_ERROR"
)

// Error is a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the upstream provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// IsRetryable checks if an error is retryable. The error may be wrapped.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error, unwrapping as needed.
// Errors carrying no code return the empty code.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

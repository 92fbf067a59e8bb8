package dbl

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid dbl configuration")
	// ErrInvalidArgument indicates a required argument was empty or out of range
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingField indicates the response body lacked an expected field
	ErrMissingField = errors.New("missing field in response")
	// ErrTransformPanic indicates a response transformer panicked
	ErrTransformPanic = errors.New("response transformer panicked")
	// ErrClientClosed indicates work was submitted after Close
	ErrClientClosed = errors.New("dbl client is closed")
)

// maxErrBodySize caps how much of a non-2xx body is kept on an APIError.
const maxErrBodySize = 4 << 10

// APIError represents a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("dbl API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the error indicates the rate limit was hit
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// TransportError wraps a failure reported by the transport before any
// response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TransformError wraps a failure to turn a response body into the
// requested type.
type TransformError struct {
	Endpoint string
	Err      error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transforming %s response: %v", e.Endpoint, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

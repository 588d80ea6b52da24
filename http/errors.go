// Package http provides shared HTTP client patterns for integration clients.
package http

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for integration clients.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates invalid or missing authentication.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the user lacks permission for the operation.
	ErrForbidden = errors.New("permission denied")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrServerError indicates a server-side error occurred.
	ErrServerError = errors.New("server error")

	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("transport failure")

	// ErrDecode indicates a response body could not be decoded.
	ErrDecode = errors.New("malformed response")
)

// APIError represents an error from an external API.
type APIError struct {
	// Service is the name of the integration (e.g., "jira", "gemini").
	Service string

	// StatusCode is the HTTP status code returned.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Endpoint is the API endpoint that was called.
	Endpoint string

	// RequestID is the request ID for debugging (if available).
	RequestID string

	// Body is the start of the raw response body.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s API error (%d) at %s [%s]: %s",
			e.Service, e.StatusCode, e.Endpoint, e.RequestID, e.Message)
	}
	return fmt.Sprintf("%s API error (%d) at %s: %s",
		e.Service, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 400, 422:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		if e.StatusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// TransportError wraps a failure to obtain any response (DNS, refused
// connection, timeout, cancellation).
type TransportError struct {
	Service string
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

// Unwrap returns both ErrTransport and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// DecodeError wraps a response body that did not parse.
type DecodeError struct {
	Service string
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Service, e.Err)
}

// Unwrap returns both ErrDecode and the cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// AuthError represents an authentication failure detected locally, such as
// a missing credential.
type AuthError struct {
	// Service is the integration that failed authentication.
	Service string

	// Reason explains why authentication failed.
	Reason string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Service, e.Reason)
}

// Unwrap returns ErrUnauthorized.
func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsTransport reports whether the request never got a response.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	devhttp "github.com/randalmurphal/ugh/http"
)

// Configuration errors.
var (
	ErrConfigURLRequired       = errors.New("jira url is required")
	ErrConfigTokenRequired     = errors.New("jira token is required")
	ErrConfigAPIVersionInvalid = errors.New("api_version must be auto, v2, or v3")
)

// Issue errors.
var (
	ErrProjectKeyInvalid = errors.New("invalid project key format")
	ErrSummaryRequired   = errors.New("issue summary is required")
)

// ADF errors.
var (
	ErrADFVersionOnly = errors.New("ADF version must be 1")
	ErrADFTypeInvalid = errors.New("ADF root type must be 'doc'")
)

// APIError represents an error response from the Jira API.
type APIError struct {
	StatusCode    int               `json:"-"`
	ErrorMessages []string          `json:"errorMessages,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	Endpoint      string            `json:"-"`
	RequestID     string            `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.ErrorMessages) > 0 {
		return fmt.Sprintf("jira api error (%d): %s", e.StatusCode, e.ErrorMessages[0])
	}
	if len(e.Errors) > 0 {
		field := e.firstField()
		return fmt.Sprintf("jira api error (%d): %s: %s", e.StatusCode, field, e.Errors[field])
	}
	if e.RequestID != "" {
		return fmt.Sprintf("jira api error (%d) at %s [%s]", e.StatusCode, e.Endpoint, e.RequestID)
	}
	return fmt.Sprintf("jira api error (%d)", e.StatusCode)
}

// firstField returns the alphabetically first field with an error, so
// messages are stable across runs.
func (e *APIError) firstField() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields[0]
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return devhttp.ErrBadRequest
	case http.StatusUnauthorized:
		return devhttp.ErrUnauthorized
	case http.StatusForbidden:
		return devhttp.ErrForbidden
	case http.StatusNotFound:
		return devhttp.ErrNotFound
	case http.StatusTooManyRequests:
		return devhttp.ErrRateLimited
	default:
		if e.StatusCode >= 500 {
			return devhttp.ErrServerError
		}
		return nil
	}
}

// fromHTTPError converts a generic API error into a Jira APIError with
// the errorMessages/errors payload decoded. Other errors pass through.
func fromHTTPError(err error) error {
	var httpErr *devhttp.APIError
	if !errors.As(err, &httpErr) {
		return err
	}

	apiErr := &APIError{
		StatusCode: httpErr.StatusCode,
		Endpoint:   httpErr.Endpoint,
		RequestID:  httpErr.RequestID,
	}
	if json.Unmarshal([]byte(httpErr.Body), apiErr) != nil ||
		(len(apiErr.ErrorMessages) == 0 && len(apiErr.Errors) == 0) {
		apiErr.ErrorMessages = []string{httpErr.Message}
	}
	return apiErr
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, devhttp.ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, devhttp.ErrForbidden)
}

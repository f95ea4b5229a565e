package authlane

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the provider API. It carries
// the HTTP status and the provider's error code/message when the body was
// parseable, and a generic fallback otherwise.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the provider error code (e.g. "resource_not_found")
	Code string `json:"code"`

	// Message is a human-readable description of the error
	Message string `json:"message"`

	// LongMessage is the provider's extended description, when present
	LongMessage string `json:"long_message,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("authlane: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("authlane: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a provider 401 rejection.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorResponse is the provider's error envelope:
//
//	{"errors": [{"code": "...", "message": "...", "long_message": "..."}]}
type errorResponse struct {
	Errors []APIError `json:"errors"`
}

// parseErrorResponse turns an HTTP error response into a typed *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Try the provider's error envelope first
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		apiErr := envelope.Errors[0]
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	// Try a flat {"code": ..., "message": ...} shape
	var flat APIError
	if err := json.Unmarshal(body, &flat); err == nil && flat.Code != "" {
		flat.StatusCode = resp.StatusCode
		return &flat
	}

	// Fallback: generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
}

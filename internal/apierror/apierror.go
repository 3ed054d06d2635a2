// Package apierror normalizes the different error shapes the archive
// backend returns into a single type callers can display.
package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
)

// FallbackMessage is returned when an error carries no usable message.
const FallbackMessage = "an unexpected error occurred"

// APIError is a normalized backend error: a human-readable message plus
// optional per-field validation details. StatusCode is zero for transport
// failures that never produced a response.
type APIError struct {
	StatusCode  int                 `json:"-"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"errors,omitempty"`
	Err         error               `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether the error represents an authentication
// failure (HTTP 401).
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// errorBody covers the envelope shapes the backend has been observed to use
// for failures: {"message": ...}, {"error": ...}, and Laravel-style
// {"message": ..., "errors": {field: [...]}}.
type errorBody struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Err     string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// FromResponse builds an APIError from a non-2xx response body. It never
// fails: an unparseable or empty body yields a status-derived message.
func FromResponse(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.Err != "":
			apiErr.Message = parsed.Err
		}
		apiErr.FieldErrors = parsed.Errors
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = FallbackMessage
	}

	return apiErr
}

// Transport normalizes a network-level failure (no response received) into
// an APIError so callers never see a raw transport error.
func Transport(err error) *APIError {
	msg := "failed to reach server"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &APIError{Message: msg, Err: err}
}

// Message extracts a human-readable string from any error. Backend errors
// yield their message field, plain errors yield Error(), and anything else
// falls back to a fixed string. It never returns an empty string for a
// non-nil input.
func Message(err error) string {
	if err == nil {
		return FallbackMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return FallbackMessage
}

package errors

import (
	"errors"
	"net/http"
)

// HTTPError is an error that knows which HTTP status it should be reported with.
type HTTPError struct {
	Code    int    // HTTP status code
	Kind    string // machine-readable error kind, e.g. "invalid_request"
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError with the kind derived from the status code.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Kind: kindFor(code), Message: message}
}

// StatusCode returns the HTTP status carried by err, or 500 when err carries none.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Code != 0 {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// Kind returns the machine-readable kind carried by err, or "internal_error".
func Kind(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Kind != "" {
		return httpErr.Kind
	}
	return kindFor(http.StatusInternalServerError)
}

func kindFor(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

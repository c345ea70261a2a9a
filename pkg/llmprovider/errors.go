package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAllProvidersFailed    = errors.New("all providers failed")
	ErrNoProvidersConfigured = errors.New("no providers configured")
	ErrInvalidRequest        = errors.New("invalid request")

	// ErrEmptyResponse indicates the provider answered with no text
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedOutput indicates the model output is not the requested JSON
	ErrMalformedOutput = errors.New("malformed model output")
)

// ProviderError is the last failure of one provider after its retries.
type ProviderError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// statusCoder is implemented by provider API errors.
type statusCoder interface {
	HTTPStatus() int
}

// Retryable reports whether another attempt against the same provider may
// succeed. Client errors other than 408 and 429 are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		switch status := sc.HTTPStatus(); {
		case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
			return true
		case status >= 500:
			return true
		default:
			return false
		}
	}
	return true
}

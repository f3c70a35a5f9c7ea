package s2

import (
	"errors"
	"fmt"
)

// Common errors returned by the S2 client.
var (
	// ErrNotFound indicates the paper was not found.
	ErrNotFound = errors.New("not found in Semantic Scholar")

	// ErrRateLimited indicates the API quota has been exceeded.
	ErrRateLimited = errors.New("Semantic Scholar rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue or timeout.
	ErrNetworkError = errors.New("network error communicating with Semantic Scholar")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Semantic Scholar")
)

// APIError represents a non-success HTTP status from the API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Semantic Scholar API error (status %d, %s): %s", e.StatusCode, e.Endpoint, e.Message)
}

// IsNotFound returns true if the error indicates the paper was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// statusLabel classifies an error for the request counter.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case IsRateLimited(err):
		return "rate_limited"
	case errors.Is(err, ErrNetworkError):
		return "network_error"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "http_error"
	}
}

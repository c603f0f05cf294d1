package extract

import (
	"errors"
	"fmt"
)

// Common errors returned by the LLM client.
var (
	// ErrAuthError indicates an authentication error (missing/invalid API key).
	ErrAuthError = errors.New("LLM authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("LLM rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with LLM endpoint")

	// ErrInvalidResponse indicates the model returned output that could not
	// be parsed into the expected structure.
	ErrInvalidResponse = errors.New("invalid response from LLM endpoint")
)

// APIError represents an HTTP-level error from the chat completions API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("LLM API error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
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

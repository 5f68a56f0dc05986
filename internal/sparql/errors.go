package sparql

import (
	"errors"
	"fmt"
)

// Common errors returned by the query client.
var (
	// ErrAuthError indicates the endpoint rejected the credentials.
	ErrAuthError = errors.New("query endpoint authentication error")

	// ErrRateLimited indicates the endpoint kept answering 429 after retries.
	ErrRateLimited = errors.New("query endpoint rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with query endpoint")

	// ErrEmptyResponse indicates a 200 response with no body.
	ErrEmptyResponse = errors.New("empty response from query endpoint")
)

// APIError represents a non-success response from the endpoint.
type APIError struct {
	StatusCode int
	Query      string // query name, for context
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("query endpoint error (status %d, query %s): %s", e.StatusCode, e.Query, e.Message)
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

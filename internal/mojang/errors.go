package mojang

import (
	"errors"
	"fmt"
)

// Error types for Mojang API operations.
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidUUID       = errors.New("invalid UUID")
	ErrInvalidResponse   = errors.New("invalid API response")
	ErrAPIUnavailable    = errors.New("mojang API unavailable")
)

// APIError represents an API error with status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mojang API error (status %d): %s", e.StatusCode, e.Message)
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}

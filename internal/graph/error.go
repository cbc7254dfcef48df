package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when one of the tenant id, client id
	// or client secret settings is absent.
	ErrMissingCredentials = errors.New("missing Microsoft Graph API credentials")
)

// AuthError is returned when the client-credentials token exchange fails.
// The remote error body is surfaced verbatim.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("failed to get access token: %s", e.Body)
	}

	return fmt.Sprintf("failed to get access token: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a Graph API request fails. Timeout errors are
// retryable by re-invoking the sync; the client itself does not retry.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Timeout    bool
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("graph request %s timed out: %v", e.Endpoint, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("graph request %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("graph request %s failed: %v", e.Endpoint, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether re-invoking the request may succeed.
func (e *FetchError) Retryable() bool {
	return e.Timeout
}

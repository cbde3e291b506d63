package goCDEP

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is an exported constant or variable used by the dashboard client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoRefreshToken is an exported constant or variable used by the dashboard client.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshRejected is an exported constant or variable used by the dashboard client.
	ErrRefreshRejected = errors.New("refresh token rejected")
	// ErrMalformedResponse is an exported constant or variable used by the dashboard client.
	ErrMalformedResponse = errors.New("malformed api response")
	// ErrAPIUnavailable is an exported constant or variable used by the dashboard client.
	ErrAPIUnavailable = errors.New("api unavailable")
	// ErrClientNotReady is an exported constant or variable used by the dashboard client.
	ErrClientNotReady = errors.New("client not initialized")
)

// APIError carries the HTTP status and server-supplied message of a rejected
// API call, for inline display by page-level callers.
type APIError struct {
	Status  int
	Message string
}

// Error describes the error operation and its observable behavior.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

package errors

import "errors"

// Common error types shared across the session layer
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionChanged   = errors.New("session changed during request")
	ErrEmptyAccessToken = errors.New("empty access token")

	// Navigation errors
	ErrRouteNotFound     = errors.New("route not found")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrNavigationAborted = errors.New("navigation aborted")

	ErrInvalidRequest = errors.New("invalid request")
)

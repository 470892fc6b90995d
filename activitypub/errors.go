package activitypub

import (
	"errors"
	"fmt"
)

// Sentinel errors for federation processing. Handlers map these onto HTTP
// status codes at the trust boundary, so every failure path must wrap one
// of them.
var (
	// ErrNotFound means a referenced local entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the HTTP signature was missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidationFailed means the payload or a fetched document failed
	// a structural or domain check.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUpstreamUnavailable means a remote server could not be reached
	// or answered with an error.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUnsupportedActivity means the activity type is outside the set
	// this server processes. It is a validation failure: unknown types
	// are rejected, never silently dropped.
	ErrUnsupportedActivity = fmt.Errorf("unsupported activity: %w", ErrValidationFailed)
)

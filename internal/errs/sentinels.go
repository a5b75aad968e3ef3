// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity (or order number) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness rule violation (e.g. a tax id already held by another client).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates failed authentication: bad credentials or a missing/invalid token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated identity that may not run the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidation indicates a malformed request (missing required fields, unknown state).
	ErrValidation = errors.New("validation")
)

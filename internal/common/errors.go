// Package common defines shared constants and sentinel errors used across
// the portal. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrorDuplicateEmail    = errors.New("email already registered")
	ErrorDuplicateUsername = errors.New("username already taken")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid login or password")

	// Remember-token lifecycle errors. Never shown to users; the auth flow
	// handles them silently and falls back to an anonymous session.
	ErrorTokenInvalid = errors.New("invalid remember token")
	ErrorTokenExpired = errors.New("remember token expired")
)

// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Account lifecycle errors.
	ErrAlreadyVerified = errors.New("account already verified")
)

// knownErrors lists the kinds that may cross the service boundary unchanged.
var knownErrors = []error{
	ErrorNotFound,
	ErrorConflict,
	ErrorUnauthorized,
	ErrorValidation,
	ErrInvalidToken,
	ErrTokenExpired,
	ErrRefreshTokenExpired,
	ErrAlreadyVerified,
	ErrorInternal,
}

// IsKnown reports whether err wraps one of the package sentinels.
func IsKnown(err error) bool {
	for _, k := range knownErrors {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// KnownOrInternal returns err unchanged when it wraps a known kind and
// ErrorInternal otherwise. A nil error stays nil.
func KnownOrInternal(err error) error {
	if err == nil || IsKnown(err) {
		return err
	}
	return ErrorInternal
}

// Package common defines shared sentinel errors used across the adapter and
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// identity-provider errors
	ErrDuplicateUser    = errors.New("user already exists")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrUserNotConfirmed = errors.New("user not confirmed")

	// confirmation-code errors
	ErrCodeMismatch = errors.New("confirmation code mismatch")
	ErrCodeExpired  = errors.New("confirmation code expired")
	ErrUserNotFound = errors.New("user not found")

	// ErrMirrorPending marks a registration that succeeded in the identity
	// provider but failed the mirror write. The user is real; the mirror is
	// behind until the write is re-run.
	ErrMirrorPending = errors.New("registered but not mirrored")

	// configuration errors
	ErrMissingClientSecret = errors.New("client secret is not configured")

	ErrInternal = errors.New("internal error")
)

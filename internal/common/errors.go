package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Refresh sub-flow errors. The messages double as the reason strings
	// returned to the caller with a 401.
	ErrRefreshTokenMissing = errors.New("Refresh token is required")
	ErrRefreshTokenInvalid = errors.New("Invalid or expired refresh token")
)

package models

import "time"

// RefreshToken is the single opaque refresh credential stored per user.
// Each successful refresh overwrites the value, so at most one unexpired
// token exists for a user at any time.
type RefreshToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

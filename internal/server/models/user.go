// Package models holds the server-side data structures persisted by the
// repositories.
package models

import "time"

// User is a registered account. Only ID is security-authoritative;
// PersonName and Email are denormalized into access-token claims for
// downstream convenience.
type User struct {
	ID           string
	Email        string
	PersonName   string
	PhoneNumber  string
	PasswordHash []byte
	CreatedAt    time.Time
}

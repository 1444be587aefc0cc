// Package refreshtokens declares the server-side repository contract for
// the opaque refresh credentials backing the token refresh flow.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

// Repository defines operations for storing, rotating, and revoking refresh
// tokens. Each user holds at most one refresh token at a time; storing a new
// one replaces the previous one.
type Repository interface {
	// Find looks up a refresh token by its opaque token string and returns its
	// metadata. Implementations should return a not-found error when the token
	// is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Save stores the refresh token for its user, replacing any token the user
	// held before.
	Save(ctx context.Context, token *models.RefreshToken) error

	// Rotate atomically replaces oldToken with newToken, provided oldToken
	// still exists and has not expired. It returns the owning user ID. When
	// oldToken has already been rotated away or has expired, it returns a
	// not-found error; of several concurrent calls with the same oldToken
	// exactly one succeeds.
	Rotate(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (string, error)

	// Delete removes a refresh token by its token string. Deleting a
	// non-existent token should not be considered an error.
	Delete(ctx context.Context, token string) error
}

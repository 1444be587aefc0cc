package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshTokenBytes is the entropy of an opaque refresh token before
// base64 encoding.
const refreshTokenBytes = 64

// TokenPair bundles a freshly minted access token and refresh token with
// their expiry instants. The caller is responsible for persisting the
// refresh token; Issue never touches storage.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Issuer mints access/refresh token pairs for verified user identities.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer validates the lifetime configuration and returns an Issuer.
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: missing codec", ErrConfiguration)
	}
	if accessTTL <= 0 {
		return nil, fmt.Errorf("%w: access token TTL must be positive", ErrConfiguration)
	}
	if refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: refresh token TTL must be positive", ErrConfiguration)
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// Issue builds claims for the user, signs an access token expiring at
// now+accessTTL, and generates an opaque refresh token expiring at
// now+refreshTTL. Every call produces a fresh jti and a fresh refresh
// secret; nothing about either is derived from the user or the clock.
func (i *Issuer) Issue(user *models.User) (*TokenPair, error) {
	now := time.Now()
	accessExpires := now.Add(i.accessTTL)
	refreshExpires := now.Add(i.refreshTTL)

	claims := &Claims{
		PersonName: user.PersonName,
		Email:      user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			Issuer:    i.codec.issuer,
			Audience:  jwt.ClaimStrings{i.codec.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpires),
		},
	}

	access, err := i.codec.Encode(claims)
	if err != nil {
		return nil, err
	}

	refresh, err := common.MakeRandBase64String(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

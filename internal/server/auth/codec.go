// Package auth implements the access-token codec and the token-pair issuer.
// Access tokens are HS256-signed JWTs bound to a configured issuer and
// audience; refresh tokens are opaque high-entropy strings whose state lives
// in the refresh-token repository.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation failure kinds. Decode returns exactly one of these for
// every rejected token; callers branch with errors.Is.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenIssuer    = errors.New("token issuer mismatch")
	ErrTokenAudience  = errors.New("token audience mismatch")
	ErrTokenExpired   = errors.New("token expired")

	// ErrConfiguration marks missing or unusable signing configuration.
	// It is fatal at startup, never a per-request condition.
	ErrConfiguration = errors.New("token configuration invalid")
)

// Claims is the claim set embedded in every access token. Only Subject is
// security-authoritative; PersonName and Email are denormalized for
// downstream convenience.
type Claims struct {
	PersonName string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Codec encodes and verifies access tokens with a shared HMAC secret.
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
}

// NewCodec validates the signing configuration and returns a Codec.
func NewCodec(secret []byte, issuer, audience string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: missing signing key", ErrConfiguration)
	}
	if issuer == "" {
		return nil, fmt.Errorf("%w: missing issuer", ErrConfiguration)
	}
	if audience == "" {
		return nil, fmt.Errorf("%w: missing audience", ErrConfiguration)
	}
	return &Codec{secret: secret, issuer: issuer, audience: audience}, nil
}

// Encode signs the given claims with HS256 and returns the compact token.
func (c *Codec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// Decode parses and verifies a compact token, checking structural
// well-formedness, signature, issuer, audience, and expiry (strictly
// now < exp). The wall clock is read once at entry so every check sees the
// same instant. On failure exactly one of the kind errors above is
// returned and no claims are exposed.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	now := time.Now()

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, mapValidationError(err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// mapValidationError collapses golang-jwt's (possibly joined) errors onto
// a single kind. The checks run in the documented verification order, so a
// token that is both expired and issued by the wrong party reports the
// issuer mismatch, and an expired token with a broken signature reports the
// signature, never the expiry.
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrTokenIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrTokenAudience
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

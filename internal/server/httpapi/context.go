package httpapi

import "context"

// Identity is the authenticated caller extracted from a valid access token.
type Identity struct {
	UserID     string
	Email      string
	PersonName string
}

type contextKey int

const identityKey contextKey = iota

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller identity placed by the auth
// middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

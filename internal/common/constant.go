// Package common contains shared constants and sentinel errors used across
// order-management components.
package common

const (
	// AuthorizationHeaderName carries the access token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme prefix expected in the Authorization header.
	BearerPrefix = "Bearer "

	// RefreshTokenHeaderName carries the opaque refresh token used to mint
	// a new token pair once the access token has expired.
	RefreshTokenHeaderName = "RefreshToken"
)

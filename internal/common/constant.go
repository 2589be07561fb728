// Package common contains shared constants and sentinel errors used across
// gophident components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the auth scheme expected in the Authorization header and
	// advertised in WWW-Authenticate on 401 responses.
	BearerScheme = "Bearer"

	// TokenTypeBearer is the token_type value returned with every access token.
	TokenTypeBearer = "bearer"
)

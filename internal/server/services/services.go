// Package services contains the server-side business logic: credential
// checks and registration (AuthService), bearer token resolution
// (CurrentUserResolver) and profile changes (AccountService).
package services

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer mints access tokens for a subject (the account email).
type TokenIssuer interface {
	IssueAccessToken(subject string) (string, error)
}

// TokenVerifier validates a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (map[string]any, error)
}

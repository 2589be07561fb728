// Package auth holds the credential primitives of the identity server:
// password digests and RSA-signed access tokens.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var ErrSigningKeyMissing = errors.New("token service has no private key")

// TokenService signs and verifies stateless bearer tokens. A service built
// with NewTokenVerifier holds only the public key and can only verify.
type TokenService struct {
	method     *jwt.SigningMethodRSA
	private    *rsa.PrivateKey
	public     *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a service that issues and verifies tokens.
// algorithm must be RS256, RS384 or RS512.
func NewTokenService(keys KeyPair, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if keys.Private == nil {
		return nil, ErrSigningKeyMissing
	}
	public := keys.Public
	if public == nil {
		public = &keys.Private.PublicKey
	}

	s, err := NewTokenVerifier(public, algorithm)
	if err != nil {
		return nil, err
	}
	s.private = keys.Private
	s.accessTTL = accessTTL
	s.refreshTTL = refreshTTL
	return s, nil
}

// NewTokenVerifier builds a verify-only service.
func NewTokenVerifier(public *rsa.PublicKey, algorithm string) (*TokenService, error) {
	if public == nil {
		return nil, errors.New("public key is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodRSA)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenService{method: method, public: public, now: time.Now}, nil
}

func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL is configured for completeness; no refresh tokens are issued.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) Algorithm() string { return s.method.Alg() }

// Issue signs a copy of claims with exp set to now+ttl. The caller's map is
// left untouched.
func (s *TokenService) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	if s.private == nil {
		return "", ErrSigningKeyMissing
	}

	payload := make(jwt.MapClaims, len(claims)+1)
	maps.Copy(payload, claims)
	payload["exp"] = s.now().Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(s.method, payload).SignedString(s.private)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueAccessToken returns a token whose subject is the given email.
func (s *TokenService) IssueAccessToken(subject string) (string, error) {
	return s.Issue(map[string]any{"sub": subject}, s.accessTTL)
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Every failure wraps common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
	}
	return s.public, nil
}

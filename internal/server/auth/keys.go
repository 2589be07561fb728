package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair is the RSA material used to sign and verify access tokens.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

var ErrKeyMismatch = errors.New("public key does not belong to private key")

// LoadKeyPair reads PEM-encoded keys (PKCS#1 or PKCS#8 private, PKIX or
// PKCS#1 public) and checks that they belong together.
func LoadKeyPair(privatePath, publicPath string) (KeyPair, error) {
	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		return KeyPair{}, fmt.Errorf("read private key: %w", err)
	}
	pubPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return KeyPair{}, fmt.Errorf("read public key: %w", err)
	}

	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return KeyPair{}, fmt.Errorf("parse private key %s: %w", privatePath, err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return KeyPair{}, fmt.Errorf("parse public key %s: %w", publicPath, err)
	}

	if !priv.PublicKey.Equal(pub) {
		return KeyPair{}, ErrKeyMismatch
	}

	return KeyPair{Private: priv, Public: pub}, nil
}

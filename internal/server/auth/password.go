package auth

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

var argon2Prefix = []byte("$argon2id$")

type argon2Params struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// PasswordHasher produces salted one-way digests. Every digest embeds its
// algorithm, parameters and salt, so verification needs nothing else.
type PasswordHasher struct {
	algorithm string
	cost      int
	argon     argon2Params
}

type HasherOption func(*PasswordHasher)

// WithAlgorithm selects "bcrypt" or "argon2id" for new digests.
// Unknown names are ignored.
func WithAlgorithm(name string) HasherOption {
	return func(h *PasswordHasher) {
		switch name {
		case AlgorithmBcrypt, AlgorithmArgon2id:
			h.algorithm = name
		}
	}
}

// WithBcryptCost sets the bcrypt cost; values outside 4..31 are ignored.
func WithBcryptCost(cost int) HasherOption {
	return func(h *PasswordHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// WithArgon2Params overrides iterations, memory (KiB) and parallelism.
func WithArgon2Params(time, memory uint32, threads uint8) HasherOption {
	return func(h *PasswordHasher) {
		h.argon.time = time
		h.argon.memory = memory
		h.argon.threads = threads
	}
}

func NewPasswordHasher(opts ...HasherOption) *PasswordHasher {
	h := &PasswordHasher{
		algorithm: AlgorithmBcrypt,
		cost:      12,
		argon: argon2Params{
			time:    1,
			memory:  64 * 1024,
			threads: 4,
			keyLen:  32,
			saltLen: 16,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *PasswordHasher) Algorithm() string { return h.algorithm }

// Hash returns a fresh digest of password. Two calls with the same input
// never return the same digest.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	if h.algorithm == AlgorithmArgon2id {
		return h.hashArgon2id(password)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

func (h *PasswordHasher) hashArgon2id(password string) (string, error) {
	salt := make([]byte, h.argon.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.argon.time, h.argon.memory, h.argon.threads, h.argon.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.argon.memory, h.argon.time, h.argon.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches digest, whichever supported
// algorithm produced it.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return VerifyPassword(password, digest)
}

// VerifyPassword checks password against a stored digest given as text or
// bytes. Malformed digests never match.
func VerifyPassword[D ~string | ~[]byte](password string, digest D) bool {
	d := []byte(digest)
	if len(d) == 0 {
		return false
	}
	if bytes.HasPrefix(d, argon2Prefix) {
		return verifyArgon2id(password, string(d))
	}
	return bcrypt.CompareHashAndPassword(d, []byte(password)) == nil
}

func verifyArgon2id(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}
	if time == 0 || threads == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

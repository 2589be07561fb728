package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/dmitrijs2005/gophident/internal/dbx"
	"github.com/dmitrijs2005/gophident/internal/server/auth"
	"github.com/dmitrijs2005/gophident/internal/server/models"
	usersrepo "github.com/dmitrijs2005/gophident/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- in-memory identity store ---

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int64

	findErr   error
	createErr error
	updateErr error
	creates   int
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func clone(u *models.User) *models.User {
	c := *u
	if u.LastName != nil {
		ln := *u.LastName
		c.LastName = &ln
	}
	return &c
}

func (m *memUsers) put(u *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	u.Activate = true
	m.byEmail[u.Email] = clone(u)
	return clone(u)
}

func (m *memUsers) get(email string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		return clone(u)
	}
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u := m.get(email); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	m.creates++
	m.mu.Unlock()
	now := time.Now()
	u.CreatedAt, u.LastUpdatedAt = now, now
	return m.put(u), nil
}

func (m *memUsers) update(u *models.User, fn func(stored *models.User)) (*models.User, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.byEmail {
		if stored.ID == u.ID {
			fn(stored)
			stored.LastUpdatedAt = time.Now()
			return clone(stored), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, u *models.User, hash string) (*models.User, error) {
	return m.update(u, func(s *models.User) { s.HashedPassword = hash })
}

func (m *memUsers) UpdateFirstName(ctx context.Context, u *models.User, name string) (*models.User, error) {
	return m.update(u, func(s *models.User) { s.FirstName = name })
}

func (m *memUsers) UpdateLastName(ctx context.Context, u *models.User, name *string) (*models.User, error) {
	return m.update(u, func(s *models.User) { s.LastName = name })
}

type fakeRepoManager struct {
	u *memUsers
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }

// --- hasher that counts calls ---

type countingHasher struct {
	inner    *auth.PasswordHasher
	verifies int
	hashes   int
	hashErr  error
}

func newCountingHasher() *countingHasher {
	return &countingHasher{inner: auth.NewPasswordHasher(auth.WithBcryptCost(bcrypt.MinCost))}
}

func (h *countingHasher) Hash(p string) (string, error) {
	h.hashes++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.inner.Hash(p)
}

func (h *countingHasher) Verify(p, d string) bool {
	h.verifies++
	return h.inner.Verify(p, d)
}

// --- tokens ---

var (
	keyOnce sync.Once
	key     *rsa.PrivateKey
	keyErr  error
)

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	keyOnce.Do(func() { key, keyErr = rsa.GenerateKey(rand.Reader, 2048) })
	require.NoError(t, keyErr)

	s, err := auth.NewTokenService(auth.KeyPair{Private: key, Public: &key.PublicKey}, "RS256", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return s
}

type failingIssuer struct{}

func (failingIssuer) IssueAccessToken(string) (string, error) {
	return "", fmt.Errorf("no key")
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// seedUser stores an account whose password is plaintext.
func seedUser(t *testing.T, store *memUsers, email, plaintext string) *models.User {
	t.Helper()
	digest, err := auth.NewPasswordHasher(auth.WithBcryptCost(bcrypt.MinCost)).Hash(plaintext)
	require.NoError(t, err)
	return store.put(&models.User{FirstName: "Ann", Email: email, HashedPassword: digest})
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) (*CurrentUserResolver, *memUsers) {
	t.Helper()
	db, _ := newMockDB(t)
	store := newMemUsers()
	return NewCurrentUserResolver(db, &fakeRepoManager{u: store}, newTokenService(t)), store
}

func TestResolve_ValidToken(t *testing.T) {
	r, store := newResolver(t)
	seeded := seedUser(t, store, "ann@example.com", "pw")

	tok, err := newTokenService(t).IssueAccessToken("ann@example.com")
	require.NoError(t, err)

	user, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
}

func TestResolve_ReturnsLiveIdentity(t *testing.T) {
	r, store := newResolver(t)
	seeded := seedUser(t, store, "ann@example.com", "pw")

	tok, err := newTokenService(t).IssueAccessToken("ann@example.com")
	require.NoError(t, err)

	_, err = store.UpdateFirstName(context.Background(), seeded, "Anabel")
	require.NoError(t, err)

	user, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "Anabel", user.FirstName)
}

func TestResolve_Rejections(t *testing.T) {
	tokens := newTokenService(t)

	expired, err := tokens.Issue(map[string]any{"sub": "ann@example.com"}, -time.Minute)
	require.NoError(t, err)
	noSub, err := tokens.Issue(map[string]any{"scope": "x"}, time.Minute)
	require.NoError(t, err)
	emptySub, err := tokens.Issue(map[string]any{"sub": ""}, time.Minute)
	require.NoError(t, err)
	numericSub, err := tokens.Issue(map[string]any{"sub": 42}, time.Minute)
	require.NoError(t, err)
	unknown, err := tokens.IssueAccessToken("deleted@example.com")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":     "not-a-token",
		"expired":     expired,
		"no sub":      noSub,
		"empty sub":   emptySub,
		"numeric sub": numericSub,
		"unknown":     unknown,
	} {
		t.Run(name, func(t *testing.T) {
			r, store := newResolver(t)
			seedUser(t, store, "ann@example.com", "pw")

			_, err := r.Resolve(context.Background(), tok)
			require.ErrorIs(t, err, common.ErrCouldNotValidateCredentials)
			assert.Equal(t, "Could not validate credentials", err.Error())
		})
	}
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	r, store := newResolver(t)
	store.findErr = errors.New("db down")

	tok, err := newTokenService(t).IssueAccessToken("ann@example.com")
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrCouldNotValidateCredentials)
	assert.Zero(t, common.KindOf(err))
}

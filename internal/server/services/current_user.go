package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/dmitrijs2005/gophident/internal/server/models"
	"github.com/dmitrijs2005/gophident/internal/server/repositories/repomanager"
)

// CurrentUserResolver turns a bearer token into the live account it names.
type CurrentUserResolver struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenVerifier
}

func NewCurrentUserResolver(db *sql.DB, m repomanager.RepositoryManager, tokens TokenVerifier) *CurrentUserResolver {
	return &CurrentUserResolver{db: db, repomanager: m, tokens: tokens}
}

// Resolve fails with ErrCouldNotValidateCredentials for a bad token, a
// missing subject or an account that no longer exists.
func (r *CurrentUserResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrCouldNotValidateCredentials
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, common.ErrCouldNotValidateCredentials
	}

	user, err := r.repomanager.Users(r.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrCouldNotValidateCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

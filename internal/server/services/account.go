package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/dmitrijs2005/gophident/internal/logging"
	"github.com/dmitrijs2005/gophident/internal/server/models"
	"github.com/dmitrijs2005/gophident/internal/server/repositories/repomanager"
)

// AccountService changes profile data of an already resolved account.
// Only the password change asks for the current password.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	log         logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, log logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		log:         log.With("module", "account"),
	}
}

func (s *AccountService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) (*models.User, error) {
	if !s.hasher.Verify(currentPassword, user.HashedPassword) {
		return nil, common.ErrIncorrectPassword
	}
	if currentPassword == newPassword {
		return nil, common.ErrPasswordUnchanged
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	updated, err := s.repomanager.Users(s.db).UpdatePasswordHash(ctx, user, digest)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	s.log.Info(ctx, "password changed", "user_id", user.ID)
	return updated, nil
}

func (s *AccountService) ChangeFirstName(ctx context.Context, user *models.User, firstName string) (*models.User, error) {
	updated, err := s.repomanager.Users(s.db).UpdateFirstName(ctx, user, firstName)
	if err != nil {
		return nil, fmt.Errorf("update first name: %w", err)
	}
	return updated, nil
}

// ChangeLastName sets the last name; nil clears it.
func (s *AccountService) ChangeLastName(ctx context.Context, user *models.User, lastName *string) (*models.User, error) {
	updated, err := s.repomanager.Users(s.db).UpdateLastName(ctx, user, lastName)
	if err != nil {
		return nil, fmt.Errorf("update last name: %w", err)
	}
	return updated, nil
}

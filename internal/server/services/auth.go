package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/dmitrijs2005/gophident/internal/dbx"
	"github.com/dmitrijs2005/gophident/internal/logging"
	"github.com/dmitrijs2005/gophident/internal/server/models"
	"github.com/dmitrijs2005/gophident/internal/server/repositories/repomanager"
)

// AccessToken is what a successful login or registration hands back.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration carries the plaintext password; it is hashed exactly once
// before it reaches the store.
type Registration struct {
	FirstName string
	LastName  *string
	Email     string
	Password  string
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	log         logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		log:         log.With("module", "auth"),
	}
}

// Authenticate returns the account for email if password matches. Unknown
// email and wrong password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrIncorrectCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, common.ErrIncorrectCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AccessToken, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrIncorrectCredentials) {
			s.log.Info(ctx, "login rejected")
		}
		return nil, err
	}

	token, err := s.CreateAccessToken(user.Email)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "login succeeded", "user_id", user.ID)
	return token, nil
}

func (s *AuthService) CreateAccessToken(subject string) (*AccessToken, error) {
	signed, err := s.tokens.IssueAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &AccessToken{AccessToken: signed, TokenType: common.TokenTypeBearer}, nil
}

// Register creates the account and logs it in. The existence check and the
// insert share one transaction; a unique violation that slips past the
// check is still reported as ErrEmailAlreadyExists.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*models.User, *AccessToken, error) {
	var created *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByEmail(ctx, reg.Email)
		switch {
		case err == nil:
			return common.ErrEmailAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("find user: %w", err)
		}

		digest, err := s.hasher.Hash(reg.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{
			FirstName:      reg.FirstName,
			LastName:       reg.LastName,
			Email:          reg.Email,
			HashedPassword: digest,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrEmailAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID)

	token, err := s.CreateAccessToken(created.Email)
	if err != nil {
		return nil, nil, err
	}
	return created, token, nil
}

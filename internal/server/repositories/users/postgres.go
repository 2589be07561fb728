package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/dmitrijs2005/gophident/internal/dbx"
	"github.com/dmitrijs2005/gophident/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, activate, first_name, last_name, email, hashed_password, created_at, last_updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var lastName sql.NullString
	if err := row.Scan(&u.ID, &u.Activate, &u.FirstName, &lastName, &u.Email,
		&u.HashedPassword, &u.CreatedAt, &u.LastUpdatedAt); err != nil {
		return nil, err
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	return u, nil
}

func wrapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

// Create inserts user and fills in the server-assigned columns.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (first_name, last_name, email, hashed_password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, activate, created_at, last_updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, nullable(user.LastName), user.Email, user.HashedPassword).
		Scan(&user.ID, &user.Activate, &user.CreatedAt, &user.LastUpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, user *models.User, hash string) (*models.User, error) {
	return r.update(ctx, `hashed_password = $1`, hash, user.ID)
}

func (r *PostgresRepository) UpdateFirstName(ctx context.Context, user *models.User, firstName string) (*models.User, error) {
	return r.update(ctx, `first_name = $1`, firstName, user.ID)
}

// UpdateLastName stores lastName, or NULL when it is nil.
func (r *PostgresRepository) UpdateLastName(ctx context.Context, user *models.User, lastName *string) (*models.User, error) {
	return r.update(ctx, `last_name = $1`, nullable(lastName), user.ID)
}

func (r *PostgresRepository) update(ctx context.Context, set string, value any, id int64) (*models.User, error) {
	query :=
		`UPDATE users SET ` + set + `, last_updated_at = now()
		 WHERE id = $2
		 RETURNING ` + userColumns + `
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

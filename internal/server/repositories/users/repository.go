// Package users is the identity store: lookups and updates of the users
// table over a dbx.DBTX.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophident/internal/server/models"
)

// Repository returns common.ErrorNotFound for missing rows and
// common.ErrorAlreadyExists when the email is taken.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, user *models.User, hash string) (*models.User, error)
	UpdateFirstName(ctx context.Context, user *models.User, firstName string) (*models.User, error)
	UpdateLastName(ctx context.Context, user *models.User, lastName *string) (*models.User, error)
}

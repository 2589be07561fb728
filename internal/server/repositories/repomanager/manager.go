package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophident/internal/dbx"
	"github.com/dmitrijs2005/gophident/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, either the pool
// or an open transaction, and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

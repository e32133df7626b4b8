package repomanager

import (
	"context"
	"database/sql"

	"github.com/dormdeals/dormdeals/internal/dbx"
	"github.com/dormdeals/dormdeals/internal/server/repositories/universities"
	"github.com/dormdeals/dormdeals/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes a schema migration hook. Services construct repositories through
// the manager so the same code runs inside or outside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Universities(db dbx.DBTX) universities.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

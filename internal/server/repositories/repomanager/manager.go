package repomanager

import (
	"context"
	"database/sql"

	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/meals"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/publicusers"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	PublicUsers(db dbx.DBTX) publicusers.Repository
	Meals(db dbx.DBTX) meals.Repository
}

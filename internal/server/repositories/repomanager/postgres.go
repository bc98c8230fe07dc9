// Package repomanager provides the PostgreSQL RepositoryManager, wiring
// repository constructors and goose migrations together.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/server/migrations"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/meals"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/publicusers"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PublicUsers(db dbx.DBTX) publicusers.Repository {
	return publicusers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Meals(db dbx.DBTX) meals.Repository {
	return meals.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

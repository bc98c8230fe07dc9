package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an account without a password. Both salts come from the
// column defaults.
func (r *PostgresRepository) Create(ctx context.Context, username string) (int64, error) {
	query :=
		`INSERT INTO "user" (username)
		 VALUES ($1)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, username).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, common.ErrorAlreadyExists
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) FindAuthByUsername(ctx context.Context, username string) (*models.UserForAuth, error) {
	query :=
		`SELECT id, username, token_salt::text FROM "user"
		 WHERE username = $1
		 `

	u := &models.UserForAuth{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.TokenSalt)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *PostgresRepository) FindLoginByUsername(ctx context.Context, username string) (*models.UserForLogin, error) {
	query :=
		`SELECT id, username, password, password_salt::text, token_salt::text FROM "user"
		 WHERE username = $1
		 `
	return r.findLogin(ctx, query, username)
}

func (r *PostgresRepository) FindLoginByID(ctx context.Context, id int64) (*models.UserForLogin, error) {
	query :=
		`SELECT id, username, password, password_salt::text, token_salt::text FROM "user"
		 WHERE id = $1
		 `
	return r.findLogin(ctx, query, id)
}

func (r *PostgresRepository) findLogin(ctx context.Context, query string, arg any) (*models.UserForLogin, error) {
	u := &models.UserForLogin{}
	var pwd sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &pwd, &u.PasswordSalt, &u.TokenSalt)
	if err != nil {
		return nil, mapErr(err)
	}
	if pwd.Valid {
		u.Password = &pwd.String
	}
	return u, nil
}

func (r *PostgresRepository) FindFullByID(ctx context.Context, id int64) (*models.FullUser, error) {
	query :=
		`SELECT "user".id, username, age, size_cm, weight FROM "user"
		 JOIN public_user ON public_user.owner = "user".id
		 WHERE "user".id = $1
		 `

	u := &models.FullUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Age, &u.SizeCm, &u.Weight)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	query :=
		`UPDATE "user" SET password = $1
		 WHERE id = $2
		 `
	return r.execOne(ctx, query, hash, id)
}

// RotateTokenSalt invalidates every token issued so far for the account.
func (r *PostgresRepository) RotateTokenSalt(ctx context.Context, id int64) error {
	query :=
		`UPDATE "user" SET token_salt = gen_random_uuid()
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM "user" WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

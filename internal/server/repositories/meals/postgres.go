package meals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, owner int64, m models.MealForCreate) (int64, error) {
	query :=
		`INSERT INTO meal (owner, name, kcal, carbs, proteins, lipids)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, owner, m.Name, m.Kcal, m.Carbs, m.Proteins, m.Lipids).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner, id int64) (*models.Meal, error) {
	query :=
		`SELECT id, owner, name, kcal, carbs, proteins, lipids FROM meal
		 WHERE id = $1 AND owner = $2
		 `

	m, err := scanMeal(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (r *PostgresRepository) List(ctx context.Context, owner int64) ([]*models.Meal, error) {
	query :=
		`SELECT id, owner, name, kcal, carbs, proteins, lipids FROM meal
		 WHERE owner = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update applies the non-nil fields of patch and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, owner, id int64, patch models.MealForUpdate) (*models.Meal, error) {
	query :=
		`UPDATE meal SET
		   name = COALESCE($1, name),
		   kcal = COALESCE($2, kcal),
		   carbs = COALESCE($3, carbs),
		   proteins = COALESCE($4, proteins),
		   lipids = COALESCE($5, lipids)
		 WHERE id = $6 AND owner = $7
		 RETURNING id, owner, name, kcal, carbs, proteins, lipids
		 `

	var name sql.NullString
	if patch.Name != nil {
		name = sql.NullString{String: *patch.Name, Valid: true}
	}

	m, err := scanMeal(r.db.QueryRowContext(ctx, query,
		name, nullInt32(patch.Kcal), nullInt32(patch.Carbs), nullInt32(patch.Proteins), nullInt32(patch.Lipids),
		id, owner))
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, owner, id int64) error {
	query := `DELETE FROM meal WHERE id = $1 AND owner = $2`

	res, err := r.db.ExecContext(ctx, query, id, owner)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(s scanner) (*models.Meal, error) {
	m := &models.Meal{}
	if err := s.Scan(&m.ID, &m.Owner, &m.Name, &m.Kcal, &m.Carbs, &m.Proteins, &m.Lipids); err != nil {
		return nil, err
	}
	return m, nil
}

func nullInt32(v *int32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *v, Valid: true}
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

package publicusers

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

func (r *PostgresRepository) Create(ctx context.Context, owner int64, age, sizeCm int32, weight float32) (int64, error) {
	query :=
		`INSERT INTO public_user (owner, age, size_cm, weight)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, owner, age, sizeCm, weight).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, owner int64) (*models.PublicUser, error) {
	query :=
		`SELECT id, owner, age, size_cm, weight FROM public_user
		 WHERE owner = $1
		 `

	p := &models.PublicUser{}
	err := r.db.QueryRowContext(ctx, query, owner).Scan(&p.ID, &p.Owner, &p.Age, &p.SizeCm, &p.Weight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of patch in a single statement and
// returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, owner int64, patch models.PublicUserForUpdate) (*models.PublicUser, error) {
	query :=
		`UPDATE public_user SET
		   age = COALESCE($1, age),
		   size_cm = COALESCE($2, size_cm),
		   weight = COALESCE($3, weight)
		 WHERE owner = $4
		 RETURNING id, owner, age, size_cm, weight
		 `

	p := &models.PublicUser{}
	err := r.db.QueryRowContext(ctx, query, nullInt32(patch.Age), nullInt32(patch.SizeCm), nullFloat32(patch.Weight), owner).
		Scan(&p.ID, &p.Owner, &p.Age, &p.SizeCm, &p.Weight)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func nullInt32(v *int32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *v, Valid: true}
}

func nullFloat32(v *float32) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(*v), Valid: true}
}

// Package meals stores meal records. Every query is filtered by owner, so a
// user can never see or touch another user's rows.
package meals

import (
	"context"

	"github.com/Mal-back/cal-tracker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, owner int64, m models.MealForCreate) (int64, error)
	Get(ctx context.Context, owner, id int64) (*models.Meal, error)
	List(ctx context.Context, owner int64) ([]*models.Meal, error)
	Update(ctx context.Context, owner, id int64, patch models.MealForUpdate) (*models.Meal, error)
	Delete(ctx context.Context, owner, id int64) error
}

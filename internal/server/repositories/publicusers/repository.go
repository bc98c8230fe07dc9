// Package publicusers stores the profile attached to each account.
package publicusers

import (
	"context"

	"github.com/Mal-back/cal-tracker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, owner int64, age, sizeCm int32, weight float32) (int64, error)
	GetByOwner(ctx context.Context, owner int64) (*models.PublicUser, error)
	Update(ctx context.Context, owner int64, patch models.PublicUserForUpdate) (*models.PublicUser, error)
}

// Package users is the identity store: accounts, their credentials and the
// per-user token salt. Each finder returns one named projection.
package users

import (
	"context"

	"github.com/Mal-back/cal-tracker/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, username string) (int64, error)
	FindAuthByUsername(ctx context.Context, username string) (*models.UserForAuth, error)
	FindLoginByUsername(ctx context.Context, username string) (*models.UserForLogin, error)
	FindLoginByID(ctx context.Context, id int64) (*models.UserForLogin, error)
	FindFullByID(ctx context.Context, id int64) (*models.FullUser, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	RotateTokenSalt(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/repomanager"
)

type MealService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMealService(db *sql.DB, m repomanager.RepositoryManager) *MealService {
	return &MealService{db: db, repomanager: m}
}

func (s *MealService) Create(ctx context.Context, owner int64, in models.MealForCreate) (*models.Meal, error) {
	if err := validateMeal(in.Name, in.Kcal, in.Carbs, in.Proteins, in.Lipids); err != nil {
		return nil, err
	}

	repo := s.repomanager.Meals(s.db)
	id, err := repo.Create(ctx, owner, in)
	if err != nil {
		return nil, fmt.Errorf("error creating meal: %w", err)
	}

	return repo.Get(ctx, owner, id)
}

func (s *MealService) Get(ctx context.Context, owner, id int64) (*models.Meal, error) {
	return s.repomanager.Meals(s.db).Get(ctx, owner, id)
}

func (s *MealService) List(ctx context.Context, owner int64) ([]*models.Meal, error) {
	return s.repomanager.Meals(s.db).List(ctx, owner)
}

// Update applies the non-nil fields of patch.
func (s *MealService) Update(ctx context.Context, owner, id int64, patch models.MealForUpdate) (*models.Meal, error) {
	name := "-"
	if patch.Name != nil {
		name = *patch.Name
	}
	if err := validateMeal(name, deref(patch.Kcal), deref(patch.Carbs), deref(patch.Proteins), deref(patch.Lipids)); err != nil {
		return nil, err
	}

	return s.repomanager.Meals(s.db).Update(ctx, owner, id, patch)
}

func (s *MealService) Delete(ctx context.Context, owner, id int64) error {
	return s.repomanager.Meals(s.db).Delete(ctx, owner, id)
}

func validateMeal(name string, values ...int32) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty meal name", ErrInvalidInput)
	}
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: negative nutrient value", ErrInvalidInput)
		}
	}
	return nil
}

func deref(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}

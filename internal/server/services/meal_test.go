package services

import (
	"context"
	"testing"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMealService(t *testing.T) (*MealService, *fakeStore) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	store := newFakeStore()
	return NewMealService(db, &fakeRepoManager{store}), store
}

func TestMealService_CreateGetList(t *testing.T) {
	s, _ := newMealService(t)
	ctx := context.Background()

	m, err := s.Create(ctx, 1, models.MealForCreate{Name: "porridge", Kcal: 350, Carbs: 60, Proteins: 12, Lipids: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Owner)
	assert.Equal(t, "porridge", m.Name)

	got, err := s.Get(ctx, 1, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMealService_OwnerScoped(t *testing.T) {
	s, _ := newMealService(t)
	ctx := context.Background()

	m, err := s.Create(ctx, 1, models.MealForCreate{Name: "salad", Kcal: 120})
	require.NoError(t, err)

	_, err = s.Get(ctx, 2, m.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 2, m.ID), common.ErrorNotFound)

	name := "stolen"
	_, err = s.Update(ctx, 2, m.ID, models.MealForUpdate{Name: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMealService_Validation(t *testing.T) {
	s, _ := newMealService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, 1, models.MealForCreate{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Create(ctx, 1, models.MealForCreate{Name: "soup", Kcal: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	m, err := s.Create(ctx, 1, models.MealForCreate{Name: "soup", Kcal: 90})
	require.NoError(t, err)

	blank := ""
	_, err = s.Update(ctx, 1, m.ID, models.MealForUpdate{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	neg := int32(-5)
	_, err = s.Update(ctx, 1, m.ID, models.MealForUpdate{Lipids: &neg})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMealService_UpdateDelete(t *testing.T) {
	s, _ := newMealService(t)
	ctx := context.Background()

	m, err := s.Create(ctx, 1, models.MealForCreate{Name: "pasta", Kcal: 600, Carbs: 90})
	require.NoError(t, err)

	kcal := int32(650)
	got, err := s.Update(ctx, 1, m.ID, models.MealForUpdate{Kcal: &kcal})
	require.NoError(t, err)
	assert.Equal(t, int32(650), got.Kcal)
	assert.Equal(t, "pasta", got.Name)
	assert.Equal(t, int32(90), got.Carbs)

	require.NoError(t, s.Delete(ctx, 1, m.ID))
	_, err = s.Get(ctx, 1, m.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMealService_CreateStorageError(t *testing.T) {
	s, store := newMealService(t)
	store.mealsErr = errBoom{}

	_, err := s.Create(context.Background(), 1, models.MealForCreate{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating meal")
	assert.ErrorIs(t, err, errBoom{})
}

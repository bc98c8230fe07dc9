package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/meals"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/publicusers"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUser struct {
	username  string
	password  *string
	pwdSalt   string
	tokenSalt string
	profile   models.PublicUser
}

// fakeStore backs all three repositories with maps. Setting err makes every
// call fail with it.
type fakeStore struct {
	nextID   int64
	users    map[int64]*fakeUser
	meals    map[int64]*models.Meal
	rotated  int
	err      error
	pubErr   error
	mealsErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 1000,
		users:  map[int64]*fakeUser{},
		meals:  map[int64]*models.Meal{},
	}
}

func (s *fakeStore) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(username string) int64 {
	id := s.newID()
	s.users[id] = &fakeUser{
		username:  username,
		pwdSalt:   fmt.Sprintf("psalt-%d", id),
		tokenSalt: fmt.Sprintf("tsalt-%d", id),
		profile:   models.PublicUser{ID: id, Owner: id},
	}
	return id
}

func (s *fakeStore) byName(username string) (int64, *fakeUser) {
	for id, u := range s.users {
		if u.username == username {
			return id, u
		}
	}
	return 0, nil
}

type fakeRepoManager struct {
	s *fakeStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return fakeUsersRepo{m.s} }
func (m *fakeRepoManager) PublicUsers(dbx.DBTX) publicusers.Repository  { return fakePublicRepo{m.s} }
func (m *fakeRepoManager) Meals(dbx.DBTX) meals.Repository              { return fakeMealsRepo{m.s} }

type fakeUsersRepo struct{ s *fakeStore }

func (r fakeUsersRepo) Create(_ context.Context, username string) (int64, error) {
	if r.s.err != nil {
		return 0, r.s.err
	}
	if _, u := r.s.byName(username); u != nil {
		return 0, common.ErrorAlreadyExists
	}
	return r.s.addUser(username), nil
}

func (r fakeUsersRepo) FindAuthByUsername(_ context.Context, username string) (*models.UserForAuth, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	id, u := r.s.byName(username)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return &models.UserForAuth{ID: id, Username: u.username, TokenSalt: u.tokenSalt}, nil
}

func (r fakeUsersRepo) login(id int64, u *fakeUser) *models.UserForLogin {
	return &models.UserForLogin{ID: id, Username: u.username, Password: u.password, PasswordSalt: u.pwdSalt, TokenSalt: u.tokenSalt}
}

func (r fakeUsersRepo) FindLoginByUsername(_ context.Context, username string) (*models.UserForLogin, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	id, u := r.s.byName(username)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return r.login(id, u), nil
}

func (r fakeUsersRepo) FindLoginByID(_ context.Context, id int64) (*models.UserForLogin, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.login(id, u), nil
}

func (r fakeUsersRepo) FindFullByID(_ context.Context, id int64) (*models.FullUser, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.FullUser{ID: id, Username: u.username, Age: u.profile.Age, SizeCm: u.profile.SizeCm, Weight: u.profile.Weight}, nil
}

func (r fakeUsersRepo) SetPasswordHash(_ context.Context, id int64, hash string) error {
	if r.s.err != nil {
		return r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.password = &hash
	return nil
}

func (r fakeUsersRepo) RotateTokenSalt(_ context.Context, id int64) error {
	if r.s.err != nil {
		return r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	r.s.rotated++
	u.tokenSalt = fmt.Sprintf("tsalt-%d-%d", id, r.s.rotated)
	return nil
}

func (r fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if r.s.err != nil {
		return r.s.err
	}
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	return nil
}

type fakePublicRepo struct{ s *fakeStore }

func (r fakePublicRepo) Create(_ context.Context, owner int64, age, sizeCm int32, weight float32) (int64, error) {
	if r.s.pubErr != nil {
		return 0, r.s.pubErr
	}
	u, ok := r.s.users[owner]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.profile.Age, u.profile.SizeCm, u.profile.Weight = age, sizeCm, weight
	return u.profile.ID, nil
}

func (r fakePublicRepo) GetByOwner(_ context.Context, owner int64) (*models.PublicUser, error) {
	if r.s.pubErr != nil {
		return nil, r.s.pubErr
	}
	u, ok := r.s.users[owner]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p := u.profile
	return &p, nil
}

func (r fakePublicRepo) Update(ctx context.Context, owner int64, patch models.PublicUserForUpdate) (*models.PublicUser, error) {
	if r.s.pubErr != nil {
		return nil, r.s.pubErr
	}
	u, ok := r.s.users[owner]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Age != nil {
		u.profile.Age = *patch.Age
	}
	if patch.SizeCm != nil {
		u.profile.SizeCm = *patch.SizeCm
	}
	if patch.Weight != nil {
		u.profile.Weight = *patch.Weight
	}
	return r.GetByOwner(ctx, owner)
}

type fakeMealsRepo struct{ s *fakeStore }

func (r fakeMealsRepo) Create(_ context.Context, owner int64, m models.MealForCreate) (int64, error) {
	if r.s.mealsErr != nil {
		return 0, r.s.mealsErr
	}
	id := r.s.newID()
	r.s.meals[id] = &models.Meal{ID: id, Owner: owner, Name: m.Name, Kcal: m.Kcal, Carbs: m.Carbs, Proteins: m.Proteins, Lipids: m.Lipids}
	return id, nil
}

func (r fakeMealsRepo) Get(_ context.Context, owner, id int64) (*models.Meal, error) {
	if r.s.mealsErr != nil {
		return nil, r.s.mealsErr
	}
	m, ok := r.s.meals[id]
	if !ok || m.Owner != owner {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (r fakeMealsRepo) List(_ context.Context, owner int64) ([]*models.Meal, error) {
	if r.s.mealsErr != nil {
		return nil, r.s.mealsErr
	}
	out := []*models.Meal{}
	for _, m := range r.s.meals {
		if m.Owner == owner {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeMealsRepo) Update(ctx context.Context, owner, id int64, patch models.MealForUpdate) (*models.Meal, error) {
	if r.s.mealsErr != nil {
		return nil, r.s.mealsErr
	}
	m, ok := r.s.meals[id]
	if !ok || m.Owner != owner {
		return nil, common.ErrorNotFound
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Kcal != nil {
		m.Kcal = *patch.Kcal
	}
	if patch.Carbs != nil {
		m.Carbs = *patch.Carbs
	}
	if patch.Proteins != nil {
		m.Proteins = *patch.Proteins
	}
	if patch.Lipids != nil {
		m.Lipids = *patch.Lipids
	}
	return r.Get(ctx, owner, id)
}

func (r fakeMealsRepo) Delete(_ context.Context, owner, id int64) error {
	if r.s.mealsErr != nil {
		return r.s.mealsErr
	}
	m, ok := r.s.meals[id]
	if !ok || m.Owner != owner {
		return common.ErrorNotFound
	}
	delete(r.s.meals, id)
	return nil
}

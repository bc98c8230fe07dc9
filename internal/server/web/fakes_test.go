package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/crypt"
	"github.com/Mal-back/cal-tracker/internal/logging"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/metrics"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/Mal-back/cal-tracker/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

var tokenKey = []byte("web-test-token-key")

type account struct {
	id        int64
	username  string
	password  string
	tokenSalt string
	profile   models.PublicUser
}

// fakeUsers implements both UserService and auth.Store.
type fakeUsers struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]*account
	rotation int
	err      error
}

func newFakeUsers() *fakeUsers {
	f := &fakeUsers{nextID: 999, accounts: map[string]*account{}}
	f.add("demo1", "Welcome")
	return f
}

func (f *fakeUsers) add(username, pwd string) *account {
	f.nextID++
	a := &account{
		id:        f.nextID,
		username:  username,
		password:  pwd,
		tokenSalt: fmt.Sprintf("salt-%d", f.nextID),
		profile:   models.PublicUser{ID: f.nextID, Owner: f.nextID, Age: 30, SizeCm: 175, Weight: 70},
	}
	f.accounts[username] = a
	return a
}

func (f *fakeUsers) byID(id int64) *account {
	for _, a := range f.accounts {
		if a.id == id {
			return a
		}
	}
	return nil
}

func (f *fakeUsers) FindAuthByUsername(_ context.Context, username string) (*models.UserForAuth, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.UserForAuth{ID: a.id, Username: a.username, TokenSalt: a.tokenSalt}, nil
}

func (f *fakeUsers) Login(_ context.Context, username, pwd string) (*models.UserForLogin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[username]
	if !ok {
		return nil, services.ErrLoginFailUsernameNotFound
	}
	if a.password != pwd {
		return nil, fmt.Errorf("%w: user_id=%d", services.ErrLoginFailPasswordNotMatching, a.id)
	}
	return &models.UserForLogin{ID: a.id, Username: a.username, TokenSalt: a.tokenSalt}, nil
}

func (f *fakeUsers) Create(_ context.Context, in models.FullUserForCreate) (*models.FullUser, error) {
	if err := crypt.CheckPasswordSafety(in.PasswordClear); err != nil {
		return nil, services.ErrAccountCreationPasswordTooWeak
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[in.Username]; ok {
		return nil, services.ErrUsernameAlreadyTaken
	}
	a := f.add(in.Username, in.PasswordClear)
	a.profile.Age, a.profile.SizeCm, a.profile.Weight = in.Age, in.SizeCm, in.Weight
	return &models.FullUser{ID: a.id, Username: a.username, Age: in.Age, SizeCm: in.SizeCm, Weight: in.Weight}, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.FullUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(id)
	if a == nil {
		return nil, common.ErrorNotFound
	}
	return &models.FullUser{ID: a.id, Username: a.username, Age: a.profile.Age, SizeCm: a.profile.SizeCm, Weight: a.profile.Weight}, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, c authctx.Ctx, in models.UserForNewPwd) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(c.UserID())
	if a == nil {
		return common.ErrorNotFound
	}
	if a.password != in.OldPwdClear {
		return services.ErrUpdatePasswordNotMatching
	}
	if err := crypt.CheckPasswordSafety(in.PasswordClear); err != nil {
		return services.ErrUpdatePasswordTooWeak
	}
	a.password = in.PasswordClear
	return nil
}

func (f *fakeUsers) GetPublic(_ context.Context, id int64) (*models.PublicUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(id)
	if a == nil {
		return nil, common.ErrorNotFound
	}
	p := a.profile
	return &p, nil
}

func (f *fakeUsers) UpdatePublic(_ context.Context, id int64, patch models.PublicUserForUpdate) (*models.PublicUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(id)
	if a == nil {
		return nil, common.ErrorNotFound
	}
	if patch.Age != nil {
		a.profile.Age = *patch.Age
	}
	if patch.SizeCm != nil {
		a.profile.SizeCm = *patch.SizeCm
	}
	if patch.Weight != nil {
		a.profile.Weight = *patch.Weight
	}
	p := a.profile
	return &p, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(id)
	if a == nil {
		return common.ErrorNotFound
	}
	delete(f.accounts, a.username)
	return nil
}

func (f *fakeUsers) RevokeTokens(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(id)
	if a == nil {
		return common.ErrorNotFound
	}
	f.rotation++
	a.tokenSalt = fmt.Sprintf("salt-%d-r%d", id, f.rotation)
	return nil
}

type fakeMeals struct {
	mu     sync.Mutex
	nextID int64
	meals  map[int64]*models.Meal
}

func newFakeMeals() *fakeMeals { return &fakeMeals{meals: map[int64]*models.Meal{}} }

func (f *fakeMeals) Create(_ context.Context, owner int64, in models.MealForCreate) (*models.Meal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, services.ErrInvalidInput
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m := &models.Meal{ID: f.nextID, Owner: owner, Name: in.Name, Kcal: in.Kcal, Carbs: in.Carbs, Proteins: in.Proteins, Lipids: in.Lipids}
	f.meals[m.ID] = m
	c := *m
	return &c, nil
}

func (f *fakeMeals) Get(_ context.Context, owner, id int64) (*models.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meals[id]
	if !ok || m.Owner != owner {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMeals) List(_ context.Context, owner int64) ([]*models.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Meal{}
	for _, m := range f.meals {
		if m.Owner == owner {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMeals) Update(ctx context.Context, owner, id int64, patch models.MealForUpdate) (*models.Meal, error) {
	f.mu.Lock()
	m, ok := f.meals[id]
	if !ok || m.Owner != owner {
		f.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Kcal != nil {
		m.Kcal = *patch.Kcal
	}
	f.mu.Unlock()
	return f.Get(ctx, owner, id)
}

func (f *fakeMeals) Delete(_ context.Context, owner, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meals[id]
	if !ok || m.Owner != owner {
		return common.ErrorNotFound
	}
	delete(f.meals, id)
	return nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	handler http.Handler
	users   *fakeUsers
	meals   *fakeMeals
	clock   *clock
	logs    *bytes.Buffer
	reg     *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users: newFakeUsers(),
		meals: newFakeMeals(),
		clock: &clock{t: time.Date(2030, 3, 1, 6, 30, 0, 0, time.UTC)},
		logs:  &bytes.Buffer{},
		reg:   prometheus.NewRegistry(),
	}

	m := metrics.New(env.reg)
	issuer := crypt.NewTokenIssuer(tokenKey, 1800, env.clock.now)

	env.handler = NewHandler(Deps{
		Logger:   logging.NewJSONLogger(env.logs, "debug"),
		Resolver: auth.NewResolver(env.users, issuer, m),
		Users:    env.users,
		Meals:    env.meals,
		Metrics:  m,
		Gatherer: env.reg,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// lastTokenCookie returns the final auth-token Set-Cookie of the response.
func lastTokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var out *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.AuthTokenName {
			out = c
		}
	}
	return out
}

// Package web is the HTTP surface of the service: cookie-based token
// resolution, the error-to-response mapping, the request log and the JSON
// API routes.
package web

import (
	"context"
	"net/http"

	"github.com/Mal-back/cal-tracker/internal/logging"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/metrics"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
)

type UserService interface {
	Login(ctx context.Context, username, pwdClear string) (*models.UserForLogin, error)
	Create(ctx context.Context, in models.FullUserForCreate) (*models.FullUser, error)
	Get(ctx context.Context, id int64) (*models.FullUser, error)
	UpdatePassword(ctx context.Context, c authctx.Ctx, in models.UserForNewPwd) error
	GetPublic(ctx context.Context, id int64) (*models.PublicUser, error)
	UpdatePublic(ctx context.Context, id int64, patch models.PublicUserForUpdate) (*models.PublicUser, error)
	Delete(ctx context.Context, id int64) error
	RevokeTokens(ctx context.Context, id int64) error
}

type MealService interface {
	Create(ctx context.Context, owner int64, in models.MealForCreate) (*models.Meal, error)
	Get(ctx context.Context, owner, id int64) (*models.Meal, error)
	List(ctx context.Context, owner int64) ([]*models.Meal, error)
	Update(ctx context.Context, owner, id int64, patch models.MealForUpdate) (*models.Meal, error)
	Delete(ctx context.Context, owner, id int64) error
}

// Deps are the collaborators of the HTTP surface. Ready and WebFolder are
// optional.
type Deps struct {
	Logger    logging.Logger
	Resolver  *auth.Resolver
	Users     UserService
	Meals     MealService
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Ready     func(ctx context.Context) error
	WebFolder string
}

type Handler struct {
	resolver *auth.Resolver
	users    UserService
	meals    MealService
}

// NewHandler builds the full request pipeline: request log, then token
// resolution for everything under /api/, then the routes.
func NewHandler(d Deps) http.Handler {
	h := &Handler{resolver: d.Resolver, users: d.Users, meals: d.Meals}

	api := http.NewServeMux()
	h.Register(api)

	mux := http.NewServeMux()
	mux.Handle("/api/", ResolveCtx(api, d.Resolver))
	mux.Handle("GET /metrics", metrics.Handler(d.Gatherer))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				d.Logger.Warn(r.Context(), "readyz.db.not_ready", "err", err)
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})
	if d.WebFolder != "" {
		mux.Handle("/", http.FileServer(http.Dir(d.WebFolder)))
	}

	return WithRequestLog(mux, d.Logger, d.Metrics)
}

// Register mounts the API routes. The mux must sit behind ResolveCtx.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login/{$}", handle(h.login))
	mux.HandleFunc("POST /api/logout/{$}", handle(h.logout))

	mux.HandleFunc("POST /api/users/{$}", handle(h.createUser))
	mux.HandleFunc("GET /api/users/{$}", handle(RequireAuth(h.getUser)))
	mux.HandleFunc("DELETE /api/users/{$}", handle(RequireAuth(h.deleteUser)))
	mux.HandleFunc("POST /api/users/password/{$}", handle(RequireAuth(h.updatePassword)))
	mux.HandleFunc("POST /api/users/logout-all/{$}", handle(RequireAuth(h.logoutAll)))
	mux.HandleFunc("GET /api/public_users/{$}", handle(RequireAuth(h.getPublicUser)))
	mux.HandleFunc("PATCH /api/public_users/{$}", handle(RequireAuth(h.updatePublicUser)))

	mux.HandleFunc("POST /api/meals/{$}", handle(RequireAuth(h.createMeal)))
	mux.HandleFunc("GET /api/meals/{$}", handle(RequireAuth(h.listMeals)))
	mux.HandleFunc("GET /api/meals/{id}", handle(RequireAuth(h.getMeal)))
	mux.HandleFunc("PATCH /api/meals/{id}", handle(RequireAuth(h.updateMeal)))
	mux.HandleFunc("DELETE /api/meals/{id}", handle(RequireAuth(h.deleteMeal)))
}

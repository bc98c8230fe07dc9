// Package server initializes and runs the cal-tracker service.
// It opens the database, applies migrations, optionally seeds the dev
// account, and runs the HTTP and gRPC servers until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mal-back/cal-tracker/internal/crypt"
	"github.com/Mal-back/cal-tracker/internal/dbx"
	"github.com/Mal-back/cal-tracker/internal/logging"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/config"
	"github.com/Mal-back/cal-tracker/internal/server/metrics"
	"github.com/Mal-back/cal-tracker/internal/server/repositories/repomanager"
	"github.com/Mal-back/cal-tracker/internal/server/services"
	"github.com/Mal-back/cal-tracker/internal/server/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/Mal-back/cal-tracker/internal/server/grpc"
)

const (
	devUsername = "demo1"
	devPassword = "Welcome"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	mealService *services.MealService
	resolver    *auth.Resolver
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	issuer := crypt.NewTokenIssuer(c.TokenKey, c.TokenDurationSecs, time.Now)

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, rm, c.PwdKey),
		mealService: services.NewMealService(db, rm),
		resolver:    auth.NewResolver(rm.Users(db), issuer, m),
		metrics:     m,
		registry:    reg,
	}

	if c.DevSeed {
		id, err := app.userService.EnsureDevUser(ctx, devUsername, devPassword)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("dev seed error: %w", err)
		}
		logger.Warn(ctx, "dev account ensured", "username", devUsername, "user_id", id)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	h := web.NewHandler(web.Deps{
		Logger:    app.logger,
		Resolver:  app.resolver,
		Users:     app.userService,
		Meals:     app.mealService,
		Metrics:   app.metrics,
		Gatherer:  app.registry,
		Ready:     app.db.PingContext,
		WebFolder: app.config.WebFolder,
	})

	s := web.NewServer(app.config.EndpointAddrHTTP, h, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.resolver, app.userService, app.mealService, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
	app.logger.Info(ctx, "App stopped")
}

package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"workforce/internal/domain/attendance"
	"workforce/internal/domain/audit"
	"workforce/internal/domain/leave"
	"workforce/internal/domain/notifications"
	"workforce/internal/domain/org"
	"workforce/internal/domain/payroll"
	"workforce/internal/domain/policy"
	"workforce/internal/platform/config"
	"workforce/internal/platform/db"
	attendancehandler "workforce/internal/transport/http/handlers/attendance"
	corehandler "workforce/internal/transport/http/handlers/core"
	leavehandler "workforce/internal/transport/http/handlers/leave"
	notificationshandler "workforce/internal/transport/http/handlers/notifications"
	orghandler "workforce/internal/transport/http/handlers/org"
	payrollhandler "workforce/internal/transport/http/handlers/payroll"
	"workforce/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	bundle := policy.FromConfig(cfg)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(pool)
	orgStore := org.NewStore(pool)
	leaveSvc := leave.NewService(leave.NewStore(pool), orgStore, auditSvc, notifySvc, bundle)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), auditSvc, bundle)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), auditSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))

	corehandler.NewHandler(pool).RegisterRoutes(router)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		orghandler.NewHandler(orgStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run(cfg config.Config) {
	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server startup failed")
	}
	defer app.Close()

	log.Info().Str("addr", cfg.Addr).Msg("workforce server listening")
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/porpartes/porpartes/docs"
	"github.com/porpartes/porpartes/internal/config"
	"github.com/porpartes/porpartes/internal/database"
	"github.com/porpartes/porpartes/internal/expense"
	"github.com/porpartes/porpartes/internal/friendship"
	"github.com/porpartes/porpartes/internal/group"
	"github.com/porpartes/porpartes/internal/invitation"
	"github.com/porpartes/porpartes/internal/user"
	"github.com/porpartes/porpartes/pkg/logging"
	mw "github.com/porpartes/porpartes/pkg/middleware"
)

// @title           PorPartes API
// @version         1.0
// @description     Shared expense tracking with group splitting and reconciliation.
// @BasePath        /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("porpartes-api", cfg.LogLevel, cfg.AppEnv)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeS) * time.Second,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group and invitation features depend on each other: invitations need
	// group membership to validate, group creation fans out invitations.
	groupRepo := group.NewRepository(db)
	invitationRepo := invitation.NewRepository(db)
	invitationService := invitation.NewService(invitationRepo, groupRepo, groupRepo, userRepo)
	invitationHandler := invitation.NewHandler(invitationService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo, userRepo)
	expenseHandler := expense.NewHandler(expenseService)

	groupService := group.NewService(groupRepo, expenseRepo, invitationService, userRepo)
	groupHandler := group.NewHandler(groupService)

	// Friendship feature
	friendshipRepo := friendship.NewRepository(db)
	friendshipService := friendship.NewService(friendshipRepo, userRepo)
	friendshipHandler := friendship.NewHandler(friendshipService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)
	r.Use(mw.ActorMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/friend-requests", friendshipHandler.Routes())
		r.Mount("/invitations", invitationHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
	})

	logger.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/config"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/handler"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/logging"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/middleware"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/repository"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/service"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("expenses-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	expenseSvc := service.NewExpenseService(expenseRepo, userRepo, nil)

	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	expenseHandler := handler.NewExpenseHandler(expenseSvc)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	expenses := http.NewServeMux()
	expenses.HandleFunc("POST /api/expenses", expenseHandler.Create)
	expenses.HandleFunc("GET /api/expenses", expenseHandler.List)
	expenses.HandleFunc("DELETE /api/expenses", expenseHandler.DeleteAll)
	expenses.HandleFunc("GET /api/expenses/search", expenseHandler.Search)
	expenses.HandleFunc("GET /api/expenses/filter", expenseHandler.Filter)
	expenses.HandleFunc("GET /api/expenses/sort", expenseHandler.Sort)
	expenses.HandleFunc("GET /api/expenses/summary", expenseHandler.Summary)
	expenses.HandleFunc("GET /api/expenses/statistics", expenseHandler.Statistics)
	expenses.Handle("GET /api/expenses/user/{id}", middleware.AdminOnly(http.HandlerFunc(expenseHandler.UserLedger)))
	expenses.HandleFunc("GET /api/expenses/{id}", expenseHandler.Get)
	expenses.HandleFunc("PUT /api/expenses/{id}", expenseHandler.Update)
	expenses.HandleFunc("DELETE /api/expenses/{id}", expenseHandler.Delete)
	mux.Handle("/api/expenses/", middleware.Auth(cfg.JWTSecret)(expenses))
	mux.Handle("/api/expenses", middleware.Auth(cfg.JWTSecret)(expenses))

	chain := middleware.Recovery(middleware.RequestID(middleware.Logging(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}

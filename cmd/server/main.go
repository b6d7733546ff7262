// Package main implements the entry point for the QuizPal API server,
// which stores users' flashcards and runs spaced-repetition quiz sessions
// over them.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/quizpal/quizpal-api/internal/api"
	"github.com/quizpal/quizpal-api/internal/api/middleware"
	"github.com/quizpal/quizpal-api/internal/config"
	"github.com/quizpal/quizpal-api/internal/domain/srs"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/platform/postgres"
	"github.com/quizpal/quizpal-api/internal/service"
	"github.com/quizpal/quizpal-api/internal/service/auth"
	"github.com/quizpal/quizpal-api/internal/service/quiz"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal before the server is forced down.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run loads configuration, wires every component, and serves until a
// termination signal arrives. Kept separate from main so it can return
// errors instead of exiting.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("on_restart", cfg.Quiz.OnRestart))

	// Open the database and verify connectivity before anything depends on it
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("error closing database connection",
				slog.String("error", closeErr.Error()))
		}
	}()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Bring the schema up to date
	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	// Stores
	userStore := postgres.NewPostgresUserStore(db, appLogger)
	cardStore := postgres.NewPostgresFlashcardStore(db, appLogger)
	reportStore := postgres.NewPostgresQuizReportStore(db, appLogger)
	reviewLogStore := postgres.NewPostgresReviewLogStore(db, appLogger)

	// Services
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordHasher := auth.NewBcryptHasher()
	userService := service.NewUserService(userStore, passwordHasher, jwtService, appLogger)
	flashcardService := service.NewFlashcardService(cardStore, reportStore, appLogger)

	// Quiz engine
	scheduler := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		GrowthFactor:    cfg.Quiz.IntervalGrowthFactor,
		MaxIntervalDays: cfg.Quiz.MaxIntervalDays,
	}))
	restartPolicy, err := quiz.ParseRestartPolicy(cfg.Quiz.OnRestart)
	if err != nil {
		return fmt.Errorf("invalid quiz configuration: %w", err)
	}
	registry := quiz.NewRegistry(
		cardStore,
		reportStore,
		reviewLogStore,
		quiz.NewDBTransactionRunner(db),
		scheduler,
		restartPolicy,
		appLogger,
	)

	// HTTP surface
	router := newRouter(userService, flashcardService, registry, jwtService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("server listening", slog.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		appLogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				appLogger.Error("failed to force close server",
					slog.String("error", closeErr.Error()))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newRouter builds the chi router with the full middleware chain and all
// API routes. Everything under /api requires a valid access token.
func newRouter(
	userService *service.UserService,
	flashcardService *service.FlashcardService,
	registry *quiz.Registry,
	jwtService auth.JWTService,
) http.Handler {
	authHandler := api.NewAuthHandler(userService, jwtService)
	flashcardHandler := api.NewFlashcardHandler(flashcardService)
	quizHandler := api.NewQuizHandler(registry)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/flashcards", flashcardHandler.CreateFlashcard)
		r.Get("/flashcards", flashcardHandler.ListFlashcards)
		r.Get("/reports", flashcardHandler.ListReports)

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/start", quizHandler.StartQuiz)
			r.Post("/answer", quizHandler.SubmitAnswer)
			r.Post("/stop", quizHandler.StopQuiz)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			slog.Debug("failed to write health response", "error", err)
		}
	})

	return r
}

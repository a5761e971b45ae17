package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/wrenhall/tome-api/internal/config"
	"github.com/wrenhall/tome-api/internal/domain/srs"
	"github.com/wrenhall/tome-api/internal/platform/postgres"
	"github.com/wrenhall/tome-api/internal/service/auth"
	"github.com/wrenhall/tome-api/internal/service/content"
	"github.com/wrenhall/tome-api/internal/service/stats"
	"github.com/wrenhall/tome-api/internal/service/study"
	"github.com/wrenhall/tome-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	bookStore     store.BookStore
	cardStore     store.CardStore
	reviewStore   store.ReviewStore
	quizStore     store.QuizStore
	noteStore     store.NoteStore
	progressStore store.ProgressStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	studyService     study.StudyService
	statsService     stats.StatsService
	contentService   content.ContentService
}

// newApplication creates a new application instance with all
// dependencies initialized. Configuration, logging, and the database
// connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(0)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.bookStore = postgres.NewPostgresBookStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.reviewStore = postgres.NewPostgresReviewStore(db, logger)
	app.quizStore = postgres.NewPostgresQuizStore(db, logger)
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)

	app.studyService = study.NewStudyService(
		app.cardStore,
		app.reviewStore,
		srs.NewScheduler(),
		study.NewSQLTxRunner(db),
		cfg.Study.QueueLimit,
		nil, // time-seeded shuffle
		logger,
	)

	app.statsService = stats.NewStatsService(app.progressStore, logger)

	app.contentService = content.NewContentService(
		app.bookStore,
		app.quizStore,
		app.noteStore,
		logger,
	)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}

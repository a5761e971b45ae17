// Package main implements the entry point for the Tome API server,
// which serves seeded reading material and tracks each user's spaced
// repetition reviews, quizzes, notes, and progress.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/wrenhall/tome-api/internal/config"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/platform/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := postgres.RunMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(context.Background())
}

// Package main implements the entry point for the tasktrack API server,
// a minimal multi-user task-tracking service: accounts register and log in,
// then manage their own to-do items over an authenticated HTTP/JSON API.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/tasktrack/internal/config"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
)

// main loads configuration, sets up logging, connects to the database,
// applies pending migrations, wires dependencies, and runs the HTTP server
// until a shutdown signal arrives.
func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		app.logger.Error("Server exited with error", "error", err)
		app.cleanup()
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up application components.
// Returns the wired application and any initialization error.
func initializeApp(ctx context.Context) (*application, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger := logger.Setup(cfg.Server)

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Establish database connection
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	// Bring the schema up to date before serving traffic
	if err := runMigrations(db, appLogger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return app, nil
}

// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies every entry point needs: logging, storage, the
// optional tracking database, and the run tracker.
package infrastructure

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/tracking"
	"github.com/JaimeStill/pulse/pkg/database"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the tracking backend is postgres.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Tracker   tracking.Tracker
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, os.Stderr)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var (
		db   database.System
		conn *sql.DB
	)
	if cfg.Tracking.UsesDatabase() {
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		conn = db.Connection()
	}

	tracker, err := tracking.New(&cfg.Tracking, store, conn, logger)
	if err != nil {
		return nil, fmt.Errorf("tracking init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Tracker:   tracker,
	}, nil
}

// NewLogger builds the process logger from the logging config.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

package tracking

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pulse/pkg/storage"
)

// New creates the tracker selected by cfg.Backend, instrumented for
// Prometheus. db is required only for the postgres backend.
func New(cfg *Config, store storage.System, db *sql.DB, logger *slog.Logger) (Tracker, error) {
	logger = logger.With("system", "tracking", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendLocal, "":
		return Instrument(newLocal(cfg, store, logger)), nil
	case BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("%s backend requires a database connection", BackendPostgres)
		}
		return Instrument(newPostgres(cfg, db, store, logger)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

// Package storage provides key-addressed object storage shared by the
// validator, the tracking sink, and the dashboard synchronizer. Keys are
// slash-separated paths such as "artifacts/validation/validation_results.json".
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/pulse/pkg/lifecycle"
)

// System manages object storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that prepares the storage root or container.
	Start(lc *lifecycle.Coordinator) error
	// Upload writes data to the object at key, replacing any previous content.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the object at key. The caller must close the reader.
	// Returns ErrNotFound if the object does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key. Returns ErrNotFound if the object does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys stored under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// New creates the storage system selected by cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case ProviderLocal, "":
		return newLocal(cfg, logger), nil
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

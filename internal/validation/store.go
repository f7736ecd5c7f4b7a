package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/JaimeStill/pulse/pkg/storage"
)

// Artifact file names under the store prefix.
const (
	ResultsFile = "validation_results.json"
	ReportFile  = "validation_report.html"
)

// Paths are the storage keys of the persisted artifacts.
type Paths struct {
	JSON string `json:"json"`
	HTML string `json:"html"`
}

// Store persists the current validation result. It is the only channel
// between the validator and the dashboard synchronizer.
type Store interface {
	// Write replaces the persisted result and its report.
	Write(ctx context.Context, r *Result) error
	// Read returns the persisted result. Returns ErrNotFound if none exists.
	Read(ctx context.Context) (*Result, error)
	// Paths returns the storage keys of the artifacts.
	Paths() Paths
}

// StorageStore keeps the result as a JSON artifact and an HTML report in
// object storage under a fixed prefix.
type StorageStore struct {
	store  storage.System
	prefix string
}

// NewStorageStore creates a Store writing under prefix in store.
func NewStorageStore(store storage.System, prefix string) *StorageStore {
	return &StorageStore{store: store, prefix: prefix}
}

func (s *StorageStore) Paths() Paths {
	return Paths{
		JSON: path.Join(s.prefix, ResultsFile),
		HTML: path.Join(s.prefix, ReportFile),
	}
}

func (s *StorageStore) Write(ctx context.Context, r *Result) error {
	p := s.Paths()

	data, err := Encode(r)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := s.store.Upload(ctx, p.JSON, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, p.JSON, err)
	}

	var report bytes.Buffer
	if err := RenderReport(&report, r); err != nil {
		return fmt.Errorf("%w: render report: %w", ErrPersist, err)
	}
	if err := s.store.Upload(ctx, p.HTML, &report, "text/html; charset=utf-8"); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, p.HTML, err)
	}

	return nil
}

func (s *StorageStore) Read(ctx context.Context) (*Result, error) {
	var r Result
	if err := storage.ReadJSON(ctx, s.store, s.Paths().JSON, &r); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read validation result: %w", err)
	}
	return &r, nil
}

// Report opens the HTML report. The caller must close the reader.
// Returns ErrNotFound if no report has been written.
func (s *StorageStore) Report(ctx context.Context) (io.ReadCloser, error) {
	body, err := s.store.Download(ctx, s.Paths().HTML)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read validation report: %w", err)
	}
	return body, nil
}

// JSONArtifacts lists the JSON artifacts stored under the prefix.
func (s *StorageStore) JSONArtifacts(ctx context.Context) ([]string, error) {
	keys, err := s.store.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list validation artifacts: %w", err)
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if path.Dir(k) == path.Clean(s.prefix) && strings.HasSuffix(k, ".json") {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *StorageStore) reportExists(ctx context.Context) (bool, error) {
	return s.store.Exists(ctx, s.Paths().HTML)
}

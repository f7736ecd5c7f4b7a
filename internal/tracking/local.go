package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/pkg/storage"
)

// local keeps run metadata as a run.json document next to the run's artifacts.
type local struct {
	artifacts  *artifactStore
	experiment string
	logger     *slog.Logger
}

func newLocal(cfg *Config, store storage.System, logger *slog.Logger) *local {
	return &local{
		artifacts:  &artifactStore{store: store, prefix: cfg.Prefix},
		experiment: cfg.Experiment,
		logger:     logger,
	}
}

func (l *local) StartRun(ctx context.Context, name string) (Run, error) {
	run := &localRun{
		tracker: l,
		record: Record{
			ID:         uuid.New(),
			Name:       name,
			Experiment: l.experiment,
			Status:     StatusRunning,
			StartedAt:  time.Now().UTC(),
			Metrics:    make(map[string]float64),
			Artifacts:  make([]Artifact, 0),
		},
	}

	if err := l.save(ctx, &run.record); err != nil {
		return nil, err
	}

	l.logger.Info("run started", "run_id", run.record.ID, "name", name)
	return run, nil
}

func (l *local) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	if err := storage.ReadJSON(ctx, l.artifacts.store, l.recordKey(id), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	return &rec, nil
}

func (l *local) recordKey(id uuid.UUID) string {
	return l.artifacts.runKey(id, "run.json")
}

func (l *local) save(ctx context.Context, rec *Record) error {
	if err := storage.WriteJSON(ctx, l.artifacts.store, l.recordKey(rec.ID), rec); err != nil {
		return fmt.Errorf("write run %s: %w", rec.ID, err)
	}
	return nil
}

type localRun struct {
	tracker *local
	mu      sync.Mutex
	record  Record
	ended   bool
}

func (r *localRun) ID() uuid.UUID {
	return r.record.ID
}

func (r *localRun) LogArtifact(ctx context.Context, key, category string) error {
	if err := r.open(); err != nil {
		return err
	}

	a, err := r.tracker.artifacts.copy(ctx, r.record.ID, key, category)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.record.Artifacts = append(r.record.Artifacts, a)
	r.mu.Unlock()
	return nil
}

func (r *localRun) LogDict(ctx context.Context, value any, logicalPath string) error {
	if err := r.open(); err != nil {
		return err
	}

	a, err := r.tracker.artifacts.putJSON(ctx, r.record.ID, value, logicalPath)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.record.Artifacts = append(r.record.Artifacts, a)
	r.mu.Unlock()
	return nil
}

func (r *localRun) LogMetric(ctx context.Context, name string, value float64) error {
	if err := r.open(); err != nil {
		return err
	}

	r.mu.Lock()
	r.record.Metrics[name] = value
	r.mu.Unlock()
	return nil
}

func (r *localRun) End(ctx context.Context, status Status) error {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return ErrRunClosed
	}
	r.ended = true

	now := time.Now().UTC()
	r.record.Status = status
	r.record.EndedAt = &now

	snapshot := r.record
	snapshot.Metrics = maps.Clone(r.record.Metrics)
	r.mu.Unlock()

	if err := r.tracker.save(ctx, &snapshot); err != nil {
		return err
	}

	r.tracker.logger.Info("run ended", "run_id", snapshot.ID, "status", status)
	return nil
}

func (r *localRun) open() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return ErrRunClosed
	}
	return nil
}

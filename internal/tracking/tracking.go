// Package tracking records experiment runs: named scopes that collect metrics
// and artifact references. It is the sink the validator reports to.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the terminal or current state of a run.
type Status string

// Run states.
const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// Tracker opens runs and retrieves recorded ones.
type Tracker interface {
	// StartRun opens a new run scope with the given name.
	StartRun(ctx context.Context, name string) (Run, error)
	// Find returns the record of a run. Returns ErrRunNotFound if unknown.
	Find(ctx context.Context, id uuid.UUID) (*Record, error)
}

// Run is an open tracking scope. End must be called exactly once.
type Run interface {
	ID() uuid.UUID
	// LogArtifact copies the stored object at key into the run under category.
	LogArtifact(ctx context.Context, key, category string) error
	// LogDict stores value as JSON under the run's logical path.
	LogDict(ctx context.Context, value any, logicalPath string) error
	// LogMetric records a numeric metric.
	LogMetric(ctx context.Context, name string, value float64) error
	// End closes the run with the given status.
	End(ctx context.Context, status Status) error
}

// Artifact references an object stored on behalf of a run.
type Artifact struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Key      string `json:"key"`
}

// Record is the persisted view of a run.
type Record struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	Experiment string             `json:"experiment"`
	Status     Status             `json:"status"`
	StartedAt  time.Time          `json:"started_at"`
	EndedAt    *time.Time         `json:"ended_at,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Artifacts  []Artifact         `json:"artifacts"`
}

// WithRun opens a run, passes it to fn, and always closes it: finished when
// fn succeeds, failed otherwise. The run id is returned even when fn fails.
func WithRun(ctx context.Context, t Tracker, name string, fn func(Run) error) (id uuid.UUID, err error) {
	run, err := t.StartRun(ctx, name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start run %s: %w", name, err)
	}
	id = run.ID()

	ended := false
	defer func() {
		if !ended {
			run.End(ctx, StatusFailed)
		}
	}()

	fnErr := fn(run)

	status := StatusFinished
	if fnErr != nil {
		status = StatusFailed
	}

	ended = true
	if endErr := run.End(ctx, status); endErr != nil {
		return id, errors.Join(fnErr, fmt.Errorf("end run %s: %w", id, endErr))
	}

	return id, fnErr
}

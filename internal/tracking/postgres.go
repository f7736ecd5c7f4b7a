package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/pkg/repository"
	"github.com/JaimeStill/pulse/pkg/storage"
)

// postgres keeps run metadata in the runs, run_metrics, and run_artifacts
// tables created by cmd/migrate. Artifact content still goes to object storage.
type postgres struct {
	db         *sql.DB
	artifacts  *artifactStore
	experiment string
	logger     *slog.Logger
}

func newPostgres(cfg *Config, db *sql.DB, store storage.System, logger *slog.Logger) *postgres {
	return &postgres{
		db:         db,
		artifacts:  &artifactStore{store: store, prefix: cfg.Prefix},
		experiment: cfg.Experiment,
		logger:     logger,
	}
}

func (p *postgres) StartRun(ctx context.Context, name string) (Run, error) {
	id := uuid.New()

	err := repository.ExecExpectOne(ctx, p.db,
		"INSERT INTO runs(id, name, experiment, status) VALUES ($1, $2, $3, $4)",
		id, name, p.experiment, string(StatusRunning),
	)
	if err != nil {
		return nil, repository.MapError(err, ErrRunNotFound, ErrDuplicateRun)
	}

	p.logger.Info("run started", "run_id", id, "name", name)
	return &postgresRun{tracker: p, id: id}, nil
}

func (p *postgres) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := repository.QueryOne(ctx, p.db,
		`SELECT id, name, experiment, status, started_at, ended_at
		 FROM runs WHERE id = $1`,
		[]any{id}, scanRecord,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrRunNotFound, ErrDuplicateRun)
	}

	metrics, err := repository.QueryMany(ctx, p.db,
		`SELECT DISTINCT ON (key) key, value FROM run_metrics
		 WHERE run_id = $1 ORDER BY key, logged_at DESC, id DESC`,
		[]any{id}, scanMetric,
	)
	if err != nil {
		return nil, fmt.Errorf("query run metrics: %w", err)
	}

	artifacts, err := repository.QueryMany(ctx, p.db,
		`SELECT category, name, storage_key FROM run_artifacts
		 WHERE run_id = $1 ORDER BY id`,
		[]any{id}, scanArtifact,
	)
	if err != nil {
		return nil, fmt.Errorf("query run artifacts: %w", err)
	}

	rec.Metrics = make(map[string]float64, len(metrics))
	for _, m := range metrics {
		rec.Metrics[m.key] = m.value
	}
	rec.Artifacts = artifacts

	return &rec, nil
}

type metric struct {
	key   string
	value float64
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		rec     Record
		status  string
		endedAt sql.NullTime
	)
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Experiment, &status, &rec.StartedAt, &endedAt); err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	if endedAt.Valid {
		rec.EndedAt = &endedAt.Time
	}
	return rec, nil
}

func scanMetric(s repository.Scanner) (metric, error) {
	var m metric
	err := s.Scan(&m.key, &m.value)
	return m, err
}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(&a.Category, &a.Name, &a.Key)
	return a, err
}

type postgresRun struct {
	tracker *postgres
	id      uuid.UUID
}

func (r *postgresRun) ID() uuid.UUID {
	return r.id
}

func (r *postgresRun) LogArtifact(ctx context.Context, key, category string) error {
	a, err := r.tracker.artifacts.copy(ctx, r.id, key, category)
	if err != nil {
		return err
	}
	return r.insertArtifact(ctx, a)
}

func (r *postgresRun) LogDict(ctx context.Context, value any, logicalPath string) error {
	a, err := r.tracker.artifacts.putJSON(ctx, r.id, value, logicalPath)
	if err != nil {
		return err
	}
	return r.insertArtifact(ctx, a)
}

func (r *postgresRun) LogMetric(ctx context.Context, name string, value float64) error {
	_, err := repository.WithTx(ctx, r.tracker.db, func(tx *sql.Tx) (struct{}, error) {
		if err := r.lockOpen(ctx, tx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			"INSERT INTO run_metrics(run_id, key, value) VALUES ($1, $2, $3)",
			r.id, name, value,
		)
	})
	if err != nil {
		return fmt.Errorf("log metric %s: %w", name, err)
	}
	return nil
}

func (r *postgresRun) End(ctx context.Context, status Status) error {
	err := repository.ExecExpectOne(ctx, r.tracker.db,
		`UPDATE runs SET status = $1, ended_at = $2
		 WHERE id = $3 AND status = 'running'`,
		string(status), time.Now().UTC(), r.id,
	)
	if err != nil {
		return repository.MapError(err, ErrRunClosed, ErrDuplicateRun)
	}

	r.tracker.logger.Info("run ended", "run_id", r.id, "status", status)
	return nil
}

func (r *postgresRun) insertArtifact(ctx context.Context, a Artifact) error {
	_, err := repository.WithTx(ctx, r.tracker.db, func(tx *sql.Tx) (struct{}, error) {
		if err := r.lockOpen(ctx, tx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			`INSERT INTO run_artifacts(run_id, category, name, storage_key)
			 VALUES ($1, $2, $3, $4)`,
			r.id, a.Category, a.Name, a.Key,
		)
	})
	if err != nil {
		return fmt.Errorf("log artifact %s: %w", a.Name, err)
	}
	return nil
}

// lockOpen holds the run row for the transaction and fails once the run has ended.
func (r *postgresRun) lockOpen(ctx context.Context, tx *sql.Tx) error {
	status, err := repository.QueryValue[string](ctx, tx,
		"SELECT status FROM runs WHERE id = $1 FOR UPDATE", r.id,
	)
	if err != nil {
		return repository.MapError(err, ErrRunNotFound, ErrDuplicateRun)
	}
	if Status(status) != StatusRunning {
		return ErrRunClosed
	}
	return nil
}

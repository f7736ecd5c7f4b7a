package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/pipeline"
	"github.com/JaimeStill/pulse/internal/schema"
	"github.com/JaimeStill/pulse/internal/tracking"
	"github.com/JaimeStill/pulse/internal/validation"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/storage"
)

const schemaDoc = `
columns:
  - name: age
    dtype: int
    allow_null: false
  - name: income
    dtype: string
    allow_null: true
rules:
  max_null_fraction: 0.2
`

type env struct {
	dir     string
	store   *validation.StorageStore
	tracker tracking.Tracker
	logger  *slog.Logger
}

func setup(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	scfg := &storage.Config{Root: filepath.Join(dir, "store")}
	if err := scfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	sys, err := storage.New(scfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatal(err)
	}
	if err := lc.WaitForStartup(); err != nil {
		t.Fatal(err)
	}

	tcfg := &tracking.Config{}
	if err := tcfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	tracker, err := tracking.New(tcfg, sys, nil, logger)
	if err != nil {
		t.Fatal(err)
	}

	return &env{
		dir:     dir,
		store:   validation.NewStorageStore(sys, "artifacts/validation"),
		tracker: tracker,
		logger:  logger,
	}
}

func (e *env) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (e *env) pipeline(schemaPath, datasetPath string, hook validation.Hook) *pipeline.Pipeline {
	v := validation.NewValidator(e.store, e.tracker, "validation", hook, e.logger)
	return pipeline.New(schemaPath, dataset.NewFileSource(datasetPath), v, e.logger)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	schemaPath := e.write(t, "schema.yaml", schemaDoc)
	datasetPath := e.write(t, "adult.csv", "age,income\n25,>50K\n,<=50K\n39,>50K\n31,<=50K\n52,>50K\n")

	synced := false
	p := e.pipeline(schemaPath, datasetPath, func(context.Context, *validation.Result) error {
		synced = true
		return nil
	})

	run, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if run.Status != pipeline.StatusCompleted {
		t.Errorf("status: got %s, want completed", run.Status)
	}
	if run.OK {
		t.Error("ok should be false: age has a disallowed null")
	}
	if run.Synthetic {
		t.Error("dataset file exists; synthetic should be false")
	}
	if !synced {
		t.Error("post-validation hook not fired")
	}
	if run.Paths.JSON != "artifacts/validation/validation_results.json" {
		t.Errorf("json path: got %s", run.Paths.JSON)
	}

	result, err := e.store.Read(ctx)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if msg, _ := result.Missing.Get("age"); msg != "20.00% nulls (not allowed)" {
		t.Errorf("missing[age]: got %q", msg)
	}

	rec, err := e.tracker.Find(ctx, run.ID)
	if err != nil {
		t.Fatalf("find run: %v", err)
	}
	if rec.Metrics[validation.MetricOK] != 0 {
		t.Errorf("validation_ok: got %v, want 0", rec.Metrics[validation.MetricOK])
	}
}

func TestRunSyntheticFallback(t *testing.T) {
	e := setup(t)
	schemaPath := e.write(t, "schema.yaml", schemaDoc)

	run, err := e.pipeline(schemaPath, filepath.Join(e.dir, "missing.csv"), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !run.Synthetic {
		t.Error("expected synthetic fallback")
	}
	if !run.OK {
		t.Error("synthetic table should satisfy the schema")
	}
}

func TestRunSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		want   error
	}{
		{"missing schema", "", schema.ErrSchemaRead},
		{"malformed schema", "columns: [", schema.ErrSchemaInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)

			schemaPath := filepath.Join(e.dir, "absent.yaml")
			if tt.schema != "" {
				schemaPath = e.write(t, "schema.yaml", tt.schema)
			}

			_, err := e.pipeline(schemaPath, filepath.Join(e.dir, "missing.csv"), nil).Run(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}

			if _, err := e.store.Read(context.Background()); !errors.Is(err, validation.ErrNotFound) {
				t.Errorf("no result should be persisted, got %v", err)
			}
		})
	}
}

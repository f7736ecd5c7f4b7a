package tracking_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/pulse/internal/tracking"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/storage"
)

func newTracker(t *testing.T) (tracking.Tracker, storage.System) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	scfg := &storage.Config{Root: filepath.Join(t.TempDir(), "store")}
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

	cfg := &tracking.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	tracker, err := tracking.New(cfg, sys, nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	return tracker, sys
}

func TestWithRunFinished(t *testing.T) {
	ctx := context.Background()
	tracker, sys := newTracker(t)

	if err := sys.Upload(ctx, "validation/report.html", strings.NewReader("<html></html>"), "text/html"); err != nil {
		t.Fatal(err)
	}

	id, err := tracking.WithRun(ctx, tracker, "data_validation", func(run tracking.Run) error {
		if err := run.LogArtifact(ctx, "validation/report.html", "validation"); err != nil {
			return err
		}
		if err := run.LogDict(ctx, map[string]bool{"ok": true}, "validation/result.json"); err != nil {
			return err
		}
		if err := run.LogMetric(ctx, "validation_ok", 0); err != nil {
			return err
		}
		return run.LogMetric(ctx, "validation_ok", 1)
	})
	if err != nil {
		t.Fatalf("with run failed: %v", err)
	}

	rec, err := tracker.Find(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if rec.Status != tracking.StatusFinished {
		t.Errorf("status: got %s, want finished", rec.Status)
	}
	if rec.Experiment != "pulse" {
		t.Errorf("experiment: got %s, want pulse", rec.Experiment)
	}
	if rec.EndedAt == nil {
		t.Error("ended_at should be set")
	}
	if rec.Metrics["validation_ok"] != 1 {
		t.Errorf("metric: got %v, want last logged value 1", rec.Metrics["validation_ok"])
	}
	if len(rec.Artifacts) != 2 {
		t.Fatalf("artifacts: got %d, want 2", len(rec.Artifacts))
	}

	for _, a := range rec.Artifacts {
		if !strings.HasPrefix(a.Key, "runs/"+id.String()+"/artifacts/validation/") {
			t.Errorf("artifact key: got %s", a.Key)
		}
		if ok, _ := sys.Exists(ctx, a.Key); !ok {
			t.Errorf("artifact %s not stored", a.Key)
		}
	}
}

func TestWithRunFailed(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTracker(t)

	id, err := tracking.WithRun(ctx, tracker, "data_validation", func(run tracking.Run) error {
		return run.LogArtifact(ctx, "missing.json", "validation")
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error: got %v, want ErrNotFound", err)
	}
	if id == uuid.Nil {
		t.Fatal("run id should be returned on failure")
	}

	rec, err := tracker.Find(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != tracking.StatusFailed {
		t.Errorf("status: got %s, want failed", rec.Status)
	}
}

func TestRunClosed(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTracker(t)

	run, err := tracker.StartRun(ctx, "data_validation")
	if err != nil {
		t.Fatal(err)
	}
	if err := run.End(ctx, tracking.StatusFinished); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"end twice", func() error { return run.End(ctx, tracking.StatusFailed) }},
		{"metric after end", func() error { return run.LogMetric(ctx, "x", 1) }},
		{"dict after end", func() error { return run.LogDict(ctx, 1, "x/y.json") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tracking.ErrRunClosed) {
				t.Errorf("error: got %v, want ErrRunClosed", err)
			}
		})
	}
}

func TestFindUnknown(t *testing.T) {
	tracker, _ := newTracker(t)

	_, err := tracker.Find(context.Background(), uuid.New())
	if !errors.Is(err, tracking.ErrRunNotFound) {
		t.Errorf("error: got %v, want ErrRunNotFound", err)
	}
	if tracking.MapHTTPStatus(err) != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", tracking.MapHTTPStatus(err))
	}
}

func TestRunsExported(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTracker(t)

	if _, err := tracking.WithRun(ctx, tracker, "export_check", func(run tracking.Run) error {
		return run.LogMetric(ctx, "validation_ok", 1)
	}); err != nil {
		t.Fatal(err)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "run" && lp.GetValue() == "export_check" {
					found[mf.GetName()] = true
				}
			}
		}
	}

	for _, name := range []string{"pulse_tracking_runs_total", "pulse_tracking_metric_value"} {
		if !found[name] {
			t.Errorf("%s not exported for run", name)
		}
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("TEST_TRACKING_BACKEND", "postgres")

	cfg := &tracking.Config{}
	if err := cfg.Finalize(&tracking.Env{Backend: "TEST_TRACKING_BACKEND"}); err != nil {
		t.Fatal(err)
	}
	if !cfg.UsesDatabase() {
		t.Error("postgres backend should use the database")
	}

	bad := &tracking.Config{Backend: "mlflow"}
	if err := bad.Finalize(nil); !errors.Is(err, tracking.ErrUnknownBackend) {
		t.Errorf("error: got %v, want ErrUnknownBackend", err)
	}
}

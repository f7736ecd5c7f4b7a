package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/pulse/internal/tracking"
	"github.com/JaimeStill/pulse/internal/validation"
	"github.com/JaimeStill/pulse/pkg/storage"
)

func newValidator(t *testing.T, hook validation.Hook) (*validation.Validator, *validation.StorageStore, tracking.Tracker) {
	t.Helper()

	sys := newStorage(t)
	store := validation.NewStorageStore(sys, "validation")

	cfg := &tracking.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	tracker, err := tracking.New(cfg, sys, nil, discard())
	if err != nil {
		t.Fatal(err)
	}

	return validation.NewValidator(store, tracker, "data_validation", hook, discard()), store, tracker
}

func TestValidateTracksRun(t *testing.T) {
	ctx := context.Background()
	v, store, tracker := newValidator(t, nil)

	out, err := v.Validate(ctx, adultFrame("25", "", "39", "31", "52"), adultSchema(0.2))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if out.Result.OK {
		t.Error("ok should be false")
	}
	if out.Paths != store.Paths() {
		t.Errorf("paths: got %+v", out.Paths)
	}

	rec, err := tracker.Find(ctx, out.RunID)
	if err != nil {
		t.Fatalf("find run: %v", err)
	}

	if rec.Name != "data_validation" {
		t.Errorf("run name: got %s", rec.Name)
	}
	if rec.Status != tracking.StatusFinished {
		t.Errorf("status: got %s, want finished", rec.Status)
	}
	if v, ok := rec.Metrics[validation.MetricOK]; !ok || v != 0 {
		t.Errorf("validation_ok: got %v (%v), want 0", v, ok)
	}
	if len(rec.Artifacts) != 3 {
		t.Fatalf("artifacts: got %d, want 3", len(rec.Artifacts))
	}

	names := map[string]bool{}
	for _, a := range rec.Artifacts {
		if a.Category != validation.ArtifactCategory {
			t.Errorf("artifact %s category: got %s", a.Name, a.Category)
		}
		names[a.Name] = true
	}
	for _, want := range []string{validation.ResultsFile, validation.ReportFile} {
		if !names[want] {
			t.Errorf("artifact %s not tracked", want)
		}
	}
}

func TestValidateFiresHook(t *testing.T) {
	ctx := context.Background()

	var seen *validation.Result
	v, _, _ := newValidator(t, func(ctx context.Context, r *validation.Result) error {
		seen = r
		return nil
	})

	out, err := v.Validate(ctx, adultFrame("25", "45"), adultSchema(0))
	if err != nil {
		t.Fatal(err)
	}
	if seen != out.Result {
		t.Error("hook should receive the validated result")
	}
}

func TestValidateHookFailureIsolated(t *testing.T) {
	tests := []struct {
		name string
		hook validation.Hook
	}{
		{"error", func(context.Context, *validation.Result) error { return errors.New("sync down") }},
		{"panic", func(context.Context, *validation.Result) error { panic("sync exploded") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			v, store, _ := newValidator(t, tt.hook)

			out, err := v.Validate(ctx, adultFrame("25", "45"), adultSchema(0))
			if err != nil {
				t.Fatalf("hook failure leaked: %v", err)
			}
			if !out.Result.OK {
				t.Error("ok should be true")
			}
			if _, err := store.Read(ctx); err != nil {
				t.Errorf("result not persisted: %v", err)
			}
		})
	}
}

type failingStore struct {
	validation.Store
}

func (failingStore) Write(context.Context, *validation.Result) error {
	return storage.ErrInvalidKey
}

func TestValidatePersistFailure(t *testing.T) {
	_, store, tracker := newValidator(t, nil)
	v := validation.NewValidator(failingStore{store}, tracker, "data_validation", nil, discard())

	_, err := v.Validate(context.Background(), adultFrame("25"), adultSchema(0))
	if !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("error: got %v, want persistence error", err)
	}
}

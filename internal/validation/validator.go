package validation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/schema"
	"github.com/JaimeStill/pulse/internal/tracking"
)

const (
	// ArtifactCategory groups the validation artifacts within a tracking run.
	ArtifactCategory = "validation"
	// MetricOK is the tracking metric carrying Result.OK as 1 or 0.
	MetricOK = "validation_ok"
)

// Hook runs after a result has been persisted and tracked. Hook failures are
// logged and never change the outcome of the validation.
type Hook func(ctx context.Context, r *Result) error

// Outcome describes a completed validation run.
type Outcome struct {
	Result *Result
	RunID  uuid.UUID
	Paths  Paths
}

// Validator checks datasets, persists each result, and records it in a
// tracking run.
type Validator struct {
	store   Store
	tracker tracking.Tracker
	runName string
	hook    Hook
	logger  *slog.Logger
}

// NewValidator creates a Validator. A nil hook is a no-op.
func NewValidator(
	store Store,
	tracker tracking.Tracker,
	runName string,
	hook Hook,
	logger *slog.Logger,
) *Validator {
	if hook == nil {
		hook = func(context.Context, *Result) error { return nil }
	}
	return &Validator{
		store:   store,
		tracker: tracker,
		runName: runName,
		hook:    hook,
		logger:  logger.With("system", "validation"),
	}
}

// Validate checks frame against s, writes the JSON and HTML artifacts, logs
// them with the validation_ok metric in one tracking run, then fires the hook.
// Data issues are reported in the result; only persistence and tracking
// failures are returned as errors.
func (v *Validator) Validate(ctx context.Context, frame *dataset.Frame, s *schema.Schema) (*Outcome, error) {
	result := Check(frame, s)

	if err := v.store.Write(ctx, result); err != nil {
		return nil, err
	}

	paths := v.store.Paths()
	runID, err := tracking.WithRun(ctx, v.tracker, v.runName, func(run tracking.Run) error {
		if err := run.LogArtifact(ctx, paths.JSON, ArtifactCategory); err != nil {
			return err
		}
		if err := run.LogArtifact(ctx, paths.HTML, ArtifactCategory); err != nil {
			return err
		}
		if err := run.LogDict(ctx, result, ArtifactCategory+"/"+ResultsFile); err != nil {
			return err
		}
		return run.LogMetric(ctx, MetricOK, result.MetricValue())
	})
	if err != nil {
		return nil, fmt.Errorf("track validation: %w", err)
	}

	v.logger.Info(
		"validation complete",
		"run_id", runID,
		"ok", result.OK,
		"missing", result.Missing.Len(),
		"dtypes", result.DTypes.Len(),
		"rules", result.Rules.Len(),
	)

	v.runHook(ctx, result)

	return &Outcome{Result: result, RunID: runID, Paths: paths}, nil
}

func (v *Validator) runHook(ctx context.Context, r *Result) {
	defer func() {
		if p := recover(); p != nil {
			v.logger.Warn("post-validation hook panicked", "panic", p)
		}
	}()

	if err := v.hook(ctx, r); err != nil {
		v.logger.Warn("post-validation hook failed", "error", err)
	}
}

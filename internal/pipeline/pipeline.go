// Package pipeline chains ingestion and validation into one run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/schema"
	"github.com/JaimeStill/pulse/internal/validation"
)

// Run states.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run reports a completed pipeline execution. Status describes the process,
// not the data: a run whose validation found issues still completes.
type Run struct {
	ID        uuid.UUID        `json:"run_id"`
	Status    string           `json:"status"`
	OK        bool             `json:"ok"`
	Synthetic bool             `json:"synthetic"`
	Paths     validation.Paths `json:"paths"`
}

// Pipeline runs ingest then validate.
type Pipeline struct {
	schemaPath string
	source     dataset.Source
	validator  *validation.Validator
	logger     *slog.Logger
}

// New creates a Pipeline reading the schema at schemaPath and the dataset from source.
func New(
	schemaPath string,
	source dataset.Source,
	validator *validation.Validator,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		schemaPath: schemaPath,
		source:     source,
		validator:  validator,
		logger:     logger.With("system", "pipeline"),
	}
}

// Run executes the pipeline once. Schema and persistence failures abort the
// run; dataset issues are recorded in the validation result.
func (p *Pipeline) Run(ctx context.Context) (*Run, error) {
	frame, synthetic, err := p.ingest(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := p.validate(ctx, frame)
	if err != nil {
		return nil, err
	}

	return &Run{
		ID:        outcome.RunID,
		Status:    StatusCompleted,
		OK:        outcome.Result.OK,
		Synthetic: synthetic,
		Paths:     outcome.Paths,
	}, nil
}

func (p *Pipeline) ingest(ctx context.Context) (*dataset.Frame, bool, error) {
	frame, synthetic, err := dataset.Ingest(ctx, p.source)
	if err != nil {
		return nil, false, fmt.Errorf("ingest: %w", err)
	}

	if synthetic {
		p.logger.Warn("dataset not found, using synthetic table", "rows", frame.Rows())
	} else {
		p.logger.Info("dataset ingested", "rows", frame.Rows(), "columns", len(frame.Columns))
	}

	return frame, synthetic, nil
}

func (p *Pipeline) validate(ctx context.Context, frame *dataset.Frame) (*validation.Outcome, error) {
	s, err := schema.Load(p.schemaPath)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	outcome, err := p.validator.Validate(ctx, frame, s)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return outcome, nil
}

// Package domain assembles the validation pipeline and dashboard
// synchronizer from infrastructure. The server and every command line tool
// build their systems through it.
package domain

import (
	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/dashboard"
	"github.com/JaimeStill/pulse/internal/dataset"
	"github.com/JaimeStill/pulse/internal/infrastructure"
	"github.com/JaimeStill/pulse/internal/pipeline"
	"github.com/JaimeStill/pulse/internal/validation"
)

// Domain holds all domain systems.
type Domain struct {
	Results      *validation.StorageStore
	Source       dataset.Source
	Synchronizer *dashboard.Synchronizer
	Scheduler    *dashboard.Scheduler
	Validator    *validation.Validator
	Pipeline     *pipeline.Pipeline
}

// New creates all domain systems. The validator triggers a dashboard sync
// after every run.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) *Domain {
	results := validation.NewStorageStore(infra.Storage, cfg.Pipeline.ArtifactPrefix)
	source := dataset.NewFileSource(cfg.Pipeline.DatasetPath)

	sync := dashboard.New(
		&cfg.Dashboard,
		results,
		source,
		infra.Storage,
		dashboard.NewSynthetic(results, nil),
		infra.Logger,
	)

	validator := validation.NewValidator(
		results,
		infra.Tracker,
		cfg.Pipeline.RunName,
		sync.Hook(),
		infra.Logger,
	)

	return &Domain{
		Results:      results,
		Source:       source,
		Synchronizer: sync,
		Scheduler:    dashboard.NewScheduler(cfg.Dashboard.SyncSchedule, sync, infra.Logger),
		Validator:    validator,
		Pipeline:     pipeline.New(cfg.Pipeline.SchemaPath, source, validator, infra.Logger),
	}
}

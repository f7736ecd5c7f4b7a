package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/JaimeStill/pulse/pkg/lifecycle"
)

// Syncer runs a full dashboard sync.
type Syncer interface {
	SyncAll(ctx context.Context) *Report
}

// Scheduler re-runs SyncAll on a cron schedule for the lifetime of the server.
type Scheduler struct {
	cron     *cron.Cron
	syncer   Syncer
	schedule string
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. An empty schedule disables it.
func NewScheduler(schedule string, syncer Syncer, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		syncer:   syncer,
		schedule: schedule,
		logger:   logger.With("system", "dashboard-scheduler"),
	}
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool {
	return s.schedule != ""
}

// Start registers the sync job and ties the cron runner to the lifecycle.
func (s *Scheduler) Start(lc *lifecycle.Coordinator) error {
	if !s.Enabled() {
		s.logger.Info("scheduled sync disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		report := s.syncer.SyncAll(lc.Context())
		if !report.Succeeded() {
			s.logger.Warn("scheduled sync failed", "error", report.Error)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule dashboard sync %q: %w", s.schedule, err)
	}

	lc.OnStartup(func() error {
		s.cron.Start()
		s.logger.Info("scheduled sync started", "schedule", s.schedule)
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-s.cron.Stop().Done()
		s.logger.Info("scheduled sync stopped")
	})

	return nil
}

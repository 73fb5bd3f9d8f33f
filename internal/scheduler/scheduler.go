package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ruddypp/Paramata-System/internal/jobs"
	"github.com/ruddypp/Paramata-System/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Roll recurring inventory schedules forward before the sweep so new
	// occurrences get their reminders materialized the same night
	_, err := s.cron.AddFunc(cfg.SyncInventorySchedules, s.jobs.SyncInventorySchedules)
	if err != nil {
		logger.Error("Failed to register SyncInventorySchedules job", "error", err)
	}

	// Daily reminder sweep
	_, err = s.cron.AddFunc(cfg.ReminderSweep, s.jobs.ReminderSweep)
	if err != nil {
		logger.Error("Failed to register ReminderSweep job", "error", err)
	}

	// Weekly cleanup of read notifications
	_, err = s.cron.AddFunc(cfg.CleanupReadNotifications, s.jobs.CleanupReadNotifications)
	if err != nil {
		logger.Error("Failed to register CleanupReadNotifications job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered jobs
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

package jobs

import (
	"context"
	"time"

	"github.com/ruddypp/Paramata-System/internal/logger"
)

// ReminderSweep materializes notifications for all due reminders.
func (jr *JobRunner) ReminderSweep() {
	jr.runWithRecovery("reminder_sweep", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		created, err := jr.services.Notifications.Sweep(ctx, false)
		if err != nil {
			logger.Error("Reminder sweep failed", "error", err)
			return
		}
		logger.Info("Reminder sweep finished", "notifications_created", created)
	})
}

// CleanupReadNotifications deletes read notifications older than the
// configured retention window.
func (jr *JobRunner) CleanupReadNotifications() {
	jr.runWithRecovery("cleanup_read_notifications", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		cutoff := time.Now().UTC().AddDate(0, 0, -jr.config.Reminders.CleanupReadAfterDays)
		deleted, err := jr.store.Notifications().DeleteReadBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Notification cleanup failed", "error", err)
			return
		}
		logger.Info("Notification cleanup finished", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	})
}

package jobs

import (
	"context"
	"time"

	"github.com/ruddypp/Paramata-System/internal/logger"
)

// SyncInventorySchedules advances recurring inventory schedules whose next
// run date has passed and seeds reminders for the new occurrences.
func (jr *JobRunner) SyncInventorySchedules() {
	jr.runWithRecovery("sync_inventory_schedules", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		advanced, err := jr.services.Schedules.SyncDue(ctx)
		if err != nil {
			logger.Error("Inventory schedule sync failed", "error", err)
			return
		}
		logger.Info("Inventory schedule sync finished", "advanced", advanced)
	})
}

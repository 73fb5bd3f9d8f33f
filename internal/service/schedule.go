package service

import (
	"context"
	"fmt"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/logger"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type scheduleService struct {
	store     repository.Store
	clock     Clock
	reminders ReminderService
}

func NewScheduleService(store repository.Store, clock Clock, reminders ReminderService) ScheduleService {
	return &scheduleService{store: store, clock: clock, reminders: reminders}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, actor domain.Principal, sch *domain.InventorySchedule) error {
	if !actor.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if !sch.Frequency.IsValid() {
		sch.Frequency = domain.FrequencyMonthly
	}
	if sch.UserID == "" {
		sch.UserID = actor.ID
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Schedules().Create(ctx, sch); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		entry := &domain.ActivityLog{
			Type:   domain.ActivityScheduleCreated,
			Action: fmt.Sprintf("Inventory schedule %q created (%s)", sch.Name, sch.Frequency),
			UserID: actor.ID,
			Target: domain.ScheduleTarget(sch.ID),
		}
		return tx.Activities().Create(ctx, entry)
	})
	if err != nil {
		return err
	}

	// Best effort: a failed reminder never fails schedule creation.
	if _, err := s.reminders.ScheduleForInventory(ctx, sch.ID); err != nil {
		logger.Error("Failed to schedule inventory reminder", "schedule_id", sch.ID, "error", err)
	}
	return nil
}

func (s *scheduleService) ListSchedules(ctx context.Context, page, pageSize int32) ([]domain.InventorySchedule, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Schedules().List(ctx, page, pageSize)
}

// SyncDue rolls every past-due schedule forward to its next occurrence
// and refreshes the SCHEDULE reminder. Each schedule fails independently.
func (s *scheduleService) SyncDue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.store.Schedules().ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due schedules: %w", err)
	}

	advanced := 0
	for i := range due {
		sch := &due[i]
		sch.NextDate = sch.Advance(now)
		if err := s.store.Schedules().Update(ctx, sch); err != nil {
			logger.Error("Failed to advance schedule", "schedule_id", sch.ID, "error", err)
			continue
		}
		if _, err := s.reminders.ScheduleForInventory(ctx, sch.ID); err != nil {
			logger.Error("Failed to refresh schedule reminder", "schedule_id", sch.ID, "error", err)
			continue
		}
		advanced++
	}
	return advanced, nil
}

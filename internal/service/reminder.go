package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/logger"
	"github.com/ruddypp/Paramata-System/internal/metrics"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

// ReminderConfig tunes due-date derivation.
type ReminderConfig struct {
	LeadDays                int
	MaintenanceFollowUpDays int
}

type reminderService struct {
	store repository.Store
	clock Clock
	cfg   ReminderConfig
}

func NewReminderService(store repository.Store, clock Clock, cfg ReminderConfig) ReminderService {
	if cfg.LeadDays <= 0 {
		cfg.LeadDays = 7
	}
	if cfg.MaintenanceFollowUpDays <= 0 {
		cfg.MaintenanceFollowUpDays = 30
	}
	return &reminderService{store: store, clock: clock, cfg: cfg}
}

// reminderDate is due minus the lead time, floored at now so reminders for
// imminent due dates fire on the next sweep.
func (s *reminderService) reminderDate(due time.Time) time.Time {
	at := due.AddDate(0, 0, -s.cfg.LeadDays)
	if now := s.clock.Now(); at.Before(now) {
		return now
	}
	return at
}

func (s *reminderService) ScheduleForRecord(ctx context.Context, kind domain.RequestKind, recordID string) (*domain.Reminder, error) {
	var rem *domain.Reminder

	switch kind {
	case domain.KindRental:
		rt, err := s.store.Rentals().GetByID(ctx, recordID)
		if err != nil {
			return nil, err
		}
		if rt.EndDate == nil {
			// Open-ended rental: nothing to remind about.
			return nil, nil
		}
		rem = &domain.Reminder{
			Type:       domain.ReminderTypeRental,
			Title:      fmt.Sprintf("Rental due: %s", rt.ItemSerial),
			Message:    fmt.Sprintf("Rental of item %s is due back on %s", rt.ItemSerial, rt.EndDate.Format("2006-01-02")),
			DueDate:    *rt.EndDate,
			ItemSerial: &rt.ItemSerial,
			RentalID:   &rt.ID,
			UserID:     rt.UserID,
		}

	case domain.KindCalibration:
		cal, err := s.store.Calibrations().GetByID(ctx, recordID)
		if err != nil {
			return nil, err
		}
		if cal.ValidUntil == nil {
			return nil, nil
		}
		rem = &domain.Reminder{
			Type:          domain.ReminderTypeCalibration,
			Title:         fmt.Sprintf("Calibration expiring: %s", cal.ItemSerial),
			Message:       fmt.Sprintf("Calibration of item %s expires on %s", cal.ItemSerial, cal.ValidUntil.Format("2006-01-02")),
			DueDate:       *cal.ValidUntil,
			ItemSerial:    &cal.ItemSerial,
			CalibrationID: &cal.ID,
			UserID:        cal.UserID,
		}

	case domain.KindMaintenance:
		m, err := s.store.Maintenances().GetByID(ctx, recordID)
		if err != nil {
			return nil, err
		}
		due := m.StartDate.AddDate(0, 0, s.cfg.MaintenanceFollowUpDays)
		rem = &domain.Reminder{
			Type:          domain.ReminderTypeMaintenance,
			Title:         fmt.Sprintf("Maintenance follow-up: %s", m.ItemSerial),
			Message:       fmt.Sprintf("Maintenance of item %s started %s needs a follow-up", m.ItemSerial, m.StartDate.Format("2006-01-02")),
			DueDate:       due,
			ItemSerial:    &m.ItemSerial,
			MaintenanceID: &m.ID,
			UserID:        m.UserID,
		}

	default:
		return nil, fmt.Errorf("unknown request kind %q", kind)
	}

	rem.ReminderDate = s.reminderDate(rem.DueDate)
	if err := s.store.Reminders().Upsert(ctx, rem); err != nil {
		return nil, fmt.Errorf("upsert reminder: %w", err)
	}
	metrics.RemindersScheduled.WithLabelValues(string(rem.Type)).Inc()
	logger.Debug("Reminder scheduled", "type", rem.Type, "origin", rem.OriginID(), "due", rem.DueDate)
	return rem, nil
}

func (s *reminderService) ScheduleForInventory(ctx context.Context, scheduleID string) (*domain.Reminder, error) {
	sch, err := s.store.Schedules().GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	rem := &domain.Reminder{
		Type:       domain.ReminderTypeSchedule,
		Title:      fmt.Sprintf("Inventory check: %s", sch.Name),
		Message:    fmt.Sprintf("Inventory check %q is due on %s", sch.Name, sch.NextDate.Format("2006-01-02")),
		DueDate:    sch.NextDate,
		ScheduleID: &sch.ID,
		UserID:     sch.UserID,
	}
	rem.ReminderDate = s.reminderDate(rem.DueDate)
	if err := s.store.Reminders().Upsert(ctx, rem); err != nil {
		return nil, fmt.Errorf("upsert reminder: %w", err)
	}
	metrics.RemindersScheduled.WithLabelValues(string(rem.Type)).Inc()
	return rem, nil
}

func (s *reminderService) Acknowledge(ctx context.Context, actor domain.Principal, reminderID string) error {
	rem, err := s.store.Reminders().GetByID(ctx, reminderID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && rem.UserID != actor.ID {
		return domain.ErrUnauthorized
	}
	return s.store.Reminders().Acknowledge(ctx, reminderID, s.clock.Now())
}

package service

import (
	"context"
	"time"

	"github.com/ruddypp/Paramata-System/internal/domain"
)

// Clock abstracts time.Now so due-date arithmetic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// RequestService is the status-transition engine surface: creation and
// lifecycle of rentals, calibrations and maintenance records, plus their
// completion artifacts.
type RequestService interface {
	CreateRental(ctx context.Context, actor domain.Principal, input CreateRentalInput) (*domain.Rental, error)
	CreateCalibration(ctx context.Context, actor domain.Principal, input CreateCalibrationInput) (*domain.Calibration, error)
	CreateMaintenance(ctx context.Context, actor domain.Principal, input CreateMaintenanceInput) (*domain.Maintenance, error)

	TransitionRental(ctx context.Context, actor domain.Principal, id string, target domain.RequestStatus, notes, returnCondition string) (*domain.Rental, error)
	TransitionCalibration(ctx context.Context, actor domain.Principal, id string, target domain.RequestStatus, notes string) (*domain.Calibration, error)
	TransitionMaintenance(ctx context.Context, actor domain.Principal, id string, target domain.RequestStatus, notes string) (*domain.Maintenance, error)

	GetRental(ctx context.Context, actor domain.Principal, id string) (*domain.Rental, error)
	GetCalibration(ctx context.Context, actor domain.Principal, id string) (*domain.Calibration, error)
	GetMaintenance(ctx context.Context, actor domain.Principal, id string) (*domain.Maintenance, error)

	ListRentals(ctx context.Context, actor domain.Principal, status domain.RequestStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	ListCalibrations(ctx context.Context, actor domain.Principal, status domain.RequestStatus, page, pageSize int32) ([]domain.Calibration, int32, error)
	ListMaintenances(ctx context.Context, actor domain.Principal, status domain.RequestStatus, page, pageSize int32) ([]domain.Maintenance, int32, error)

	SaveCalibrationCertificate(ctx context.Context, actor domain.Principal, calibrationID string, cert *domain.CalibrationCertificate) error
	SubmitServiceReport(ctx context.Context, actor domain.Principal, maintenanceID string, report *domain.ServiceReport) error
	SubmitTechnicalReport(ctx context.Context, actor domain.Principal, maintenanceID string, report *domain.TechnicalReport) error
}

// ReminderService derives and persists reminders for records that imply a
// future obligation. Scheduling is idempotent per (type, origin).
type ReminderService interface {
	// ScheduleForRecord returns nil, nil when the record carries no date
	// to remind about.
	ScheduleForRecord(ctx context.Context, kind domain.RequestKind, recordID string) (*domain.Reminder, error)
	ScheduleForInventory(ctx context.Context, scheduleID string) (*domain.Reminder, error)
	Acknowledge(ctx context.Context, actor domain.Principal, reminderID string) error
}

// NotificationService materializes due reminders into notifications and
// owns the read-state operations.
type NotificationService interface {
	CreateInstantForReminder(ctx context.Context, kind domain.RequestKind, recordID string) error
	Sweep(ctx context.Context, force bool) (int, error)
	ListOverdue(ctx context.Context, userID string) ([]domain.Reminder, error)
	List(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	UnreadCount(ctx context.Context, userID string) (int32, error)
	MarkRead(ctx context.Context, actor domain.Principal, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteAllRead(ctx context.Context, userID string) (int64, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, actor domain.Principal, item *domain.Item) error
	GetItem(ctx context.Context, serial string) (*domain.Item, error)
	ListItems(ctx context.Context, status domain.ItemStatus, page, pageSize int32) ([]domain.Item, int32, error)
	GetItemHistory(ctx context.Context, serial string) ([]domain.ItemHistory, error)
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, actor domain.Principal, s *domain.InventorySchedule) error
	ListSchedules(ctx context.Context, page, pageSize int32) ([]domain.InventorySchedule, int32, error)
	// SyncDue rolls past-due schedules forward and refreshes their
	// SCHEDULE reminders. Returns the number advanced.
	SyncDue(ctx context.Context) (int, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// EnsureAdmin creates the bootstrap admin account when it does not
	// exist yet.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ruddypp/Paramata-System/internal/domain"
)

// ErrDuplicate is returned when an insert is suppressed by a uniqueness
// constraint, e.g. a second unread notification for the same reminder.
var ErrDuplicate = errors.New("duplicate row")

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run against either, which lets the same implementations
// work inside and outside transactions.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store aggregates all repositories. WithinTx runs fn against a store
// whose repositories share one transaction; returning an error rolls
// everything back.
type Store interface {
	Items() ItemRepository
	Rentals() RentalRepository
	Calibrations() CalibrationRepository
	Maintenances() MaintenanceRepository
	Activities() ActivityLogRepository
	Reminders() ReminderRepository
	Notifications() NotificationRepository
	Schedules() ScheduleRepository
	Users() UserRepository
	Customers() CustomerRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetBySerial(ctx context.Context, serial string) (*domain.Item, error)
	// GetBySerialForUpdate locks the item row for the duration of the
	// surrounding transaction.
	GetBySerialForUpdate(ctx context.Context, serial string) (*domain.Item, error)
	UpdateStatus(ctx context.Context, serial string, status domain.ItemStatus) error
	SetLastVerified(ctx context.Context, serial string, verifiedAt time.Time) error
	List(ctx context.Context, status domain.ItemStatus, page, pageSize int32) ([]domain.Item, int32, error)

	OpenHistory(ctx context.Context, h *domain.ItemHistory) error
	// CloseHistoryByRental stamps EndDate on the open history row of the
	// rental, if one exists.
	CloseHistoryByRental(ctx context.Context, rentalID string, endDate time.Time) error
	ListHistory(ctx context.Context, serial string) ([]domain.ItemHistory, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rt *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, rt *domain.Rental) error
	List(ctx context.Context, userID string, status domain.RequestStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	CreateStatusLog(ctx context.Context, log *domain.RentalStatusLog) error
	ListStatusLogs(ctx context.Context, rentalID string) ([]domain.RentalStatusLog, error)
}

type CalibrationRepository interface {
	Create(ctx context.Context, cal *domain.Calibration) error
	GetByID(ctx context.Context, id string) (*domain.Calibration, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Calibration, error)
	Update(ctx context.Context, cal *domain.Calibration) error
	List(ctx context.Context, userID string, status domain.RequestStatus, page, pageSize int32) ([]domain.Calibration, int32, error)
	CreateStatusLog(ctx context.Context, log *domain.CalibrationStatusLog) error
	ListStatusLogs(ctx context.Context, calibrationID string) ([]domain.CalibrationStatusLog, error)
	SaveCertificate(ctx context.Context, cert *domain.CalibrationCertificate) error
	GetCertificate(ctx context.Context, calibrationID string) (*domain.CalibrationCertificate, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) error
	GetByID(ctx context.Context, id string) (*domain.Maintenance, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) error
	List(ctx context.Context, userID string, status domain.RequestStatus, page, pageSize int32) ([]domain.Maintenance, int32, error)
	CreateStatusLog(ctx context.Context, log *domain.MaintenanceStatusLog) error
	ListStatusLogs(ctx context.Context, maintenanceID string) ([]domain.MaintenanceStatusLog, error)
	SaveServiceReport(ctx context.Context, report *domain.ServiceReport) error
	GetServiceReport(ctx context.Context, maintenanceID string) (*domain.ServiceReport, error)
	SaveTechnicalReport(ctx context.Context, report *domain.TechnicalReport) error
	GetTechnicalReport(ctx context.Context, maintenanceID string) (*domain.TechnicalReport, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, page, pageSize int32) ([]domain.ActivityLog, int32, error)
}

type ReminderRepository interface {
	// Upsert inserts the reminder or, when an active reminder for the same
	// (type, origin) exists, refreshes it in place. The reminder's ID is
	// set to the stored row's ID either way.
	Upsert(ctx context.Context, rem *domain.Reminder) error
	GetByID(ctx context.Context, id string) (*domain.Reminder, error)
	// ListDue returns non-acknowledged reminders whose reminder date has
	// passed.
	ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error)
	ListOverdueByUser(ctx context.Context, userID string, now time.Time) ([]domain.Reminder, error)
	MarkSent(ctx context.Context, id string) error
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
	Acknowledge(ctx context.Context, id string, at time.Time) error
	// AcknowledgeActiveByOrigin retires the active reminder of the given
	// origin, if any. Used when a record leaves the state the reminder
	// was tracking.
	AcknowledgeActiveByOrigin(ctx context.Context, remType domain.ReminderType, originID string, at time.Time) error
}

type NotificationRepository interface {
	// Create inserts the notification. When the reminder already has an
	// unread notification the insert is suppressed and ErrDuplicate is
	// returned.
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, userID string) (int32, error)
	MarkAsRead(ctx context.Context, id, userID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) error
	DeleteRead(ctx context.Context, userID string) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.InventorySchedule) error
	GetByID(ctx context.Context, id string) (*domain.InventorySchedule, error)
	Update(ctx context.Context, s *domain.InventorySchedule) error
	List(ctx context.Context, page, pageSize int32) ([]domain.InventorySchedule, int32, error)
	ListDue(ctx context.Context, now time.Time) ([]domain.InventorySchedule, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Customer, int32, error)
}

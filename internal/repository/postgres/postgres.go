package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ruddypp/Paramata-System/internal/repository"

	_ "github.com/lib/pq"
)

// Store implements repository.Store against PostgreSQL. The querier is
// either the *sql.DB itself or, inside WithinTx, the shared *sql.Tx, so
// every repository works transparently in both scopes.
type Store struct {
	db *sql.DB
	q  repository.Querier
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Items() repository.ItemRepository     { return &itemRepository{q: s.q} }
func (s *Store) Rentals() repository.RentalRepository { return &rentalRepository{q: s.q} }
func (s *Store) Calibrations() repository.CalibrationRepository {
	return &calibrationRepository{q: s.q}
}
func (s *Store) Maintenances() repository.MaintenanceRepository {
	return &maintenanceRepository{q: s.q}
}
func (s *Store) Activities() repository.ActivityLogRepository { return &activityLogRepository{q: s.q} }
func (s *Store) Reminders() repository.ReminderRepository     { return &reminderRepository{q: s.q} }
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{q: s.q}
}
func (s *Store) Schedules() repository.ScheduleRepository { return &scheduleRepository{q: s.q} }
func (s *Store) Users() repository.UserRepository         { return &userRepository{q: s.q} }
func (s *Store) Customers() repository.CustomerRepository { return &customerRepository{q: s.q} }

// WithinTx runs fn against a store scoped to one transaction. A nested call
// joins the surrounding transaction instead of opening a second one.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := &Store{q: tx}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

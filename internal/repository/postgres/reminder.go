package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type reminderRepository struct {
	q repository.Querier
}

const reminderColumns = `id, type, status, title, message, due_date, reminder_date, item_serial, rental_id, calibration_id, maintenance_id, schedule_id, user_id, email_sent, email_sent_at, acknowledged_at, created_at, updated_at`

func scanReminder(row interface{ Scan(...any) error }) (*domain.Reminder, error) {
	rem := &domain.Reminder{}
	err := row.Scan(&rem.ID, &rem.Type, &rem.Status, &rem.Title, &rem.Message,
		&rem.DueDate, &rem.ReminderDate, &rem.ItemSerial, &rem.RentalID, &rem.CalibrationID,
		&rem.MaintenanceID, &rem.ScheduleID, &rem.UserID, &rem.EmailSent, &rem.EmailSentAt,
		&rem.AcknowledgedAt, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rem, nil
}

// Upsert targets the partial unique index on (type, origin_ref) for active
// reminders: a second schedule call for the same origin refreshes the
// existing row in place and resets it to PENDING.
func (r *reminderRepository) Upsert(ctx context.Context, rem *domain.Reminder) error {
	if rem.ID == "" {
		rem.ID = uuid.NewString()
	}
	if rem.Status == "" {
		rem.Status = domain.ReminderStatusPending
	}

	query := `INSERT INTO reminders (id, type, status, title, message, due_date, reminder_date, origin_ref, item_serial, rental_id, calibration_id, maintenance_id, schedule_id, user_id, email_sent, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, $15, $15)
	          ON CONFLICT (type, origin_ref) WHERE status <> 'ACKNOWLEDGED' DO UPDATE SET
	              title = EXCLUDED.title,
	              message = EXCLUDED.message,
	              due_date = EXCLUDED.due_date,
	              reminder_date = EXCLUDED.reminder_date,
	              status = 'PENDING',
	              updated_at = EXCLUDED.updated_at
	          RETURNING id, status, created_at, updated_at`
	return r.q.QueryRowContext(ctx, query, rem.ID, rem.Type, rem.Status, rem.Title, rem.Message,
		rem.DueDate, rem.ReminderDate, rem.OriginID(), rem.ItemSerial, rem.RentalID,
		rem.CalibrationID, rem.MaintenanceID, rem.ScheduleID, rem.UserID, time.Now()).
		Scan(&rem.ID, &rem.Status, &rem.CreatedAt, &rem.UpdatedAt)
}

func (r *reminderRepository) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	rem, err := scanReminder(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reminder %s: %w", id, domain.ErrNotFound)
	}
	return rem, err
}

func (r *reminderRepository) ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
	          WHERE status <> 'ACKNOWLEDGED' AND reminder_date <= $1 ORDER BY reminder_date`
	return r.queryReminders(ctx, query, now)
}

func (r *reminderRepository) ListOverdueByUser(ctx context.Context, userID string, now time.Time) ([]domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
	          WHERE user_id = $1 AND status <> 'ACKNOWLEDGED' AND due_date < $2 ORDER BY due_date`
	return r.queryReminders(ctx, query, userID, now)
}

func (r *reminderRepository) queryReminders(ctx context.Context, query string, args ...any) ([]domain.Reminder, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *rem)
	}
	return reminders, rows.Err()
}

func (r *reminderRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE reminders SET status = 'SENT', updated_at = $1 WHERE id = $2 AND status = 'PENDING'`
	_, err := r.q.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *reminderRepository) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE reminders SET email_sent = TRUE, email_sent_at = $1, updated_at = $2 WHERE id = $3`
	_, err := r.q.ExecContext(ctx, query, at, time.Now(), id)
	return err
}

func (r *reminderRepository) Acknowledge(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE reminders SET status = 'ACKNOWLEDGED', acknowledged_at = $1, updated_at = $2 WHERE id = $3`
	res, err := r.q.ExecContext(ctx, query, at, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reminder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *reminderRepository) AcknowledgeActiveByOrigin(ctx context.Context, remType domain.ReminderType, originID string, at time.Time) error {
	query := `UPDATE reminders SET status = 'ACKNOWLEDGED', acknowledged_at = $1, updated_at = $2
	          WHERE type = $3 AND origin_ref = $4 AND status <> 'ACKNOWLEDGED'`
	_, err := r.q.ExecContext(ctx, query, at, time.Now(), remType, originID)
	return err
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruddypp/Paramata-System/internal/domain"
)

func TestReminderRepository_Upsert(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("InsertAssignsDefaults", func(t *testing.T) {
		rentalID := "rental-1"
		rem := &domain.Reminder{
			Type:         domain.ReminderTypeRental,
			Title:        "Rental due",
			DueDate:      time.Now().Add(48 * time.Hour),
			ReminderDate: time.Now(),
			RentalID:     &rentalID,
			UserID:       "user-1",
		}

		mock.ExpectQuery("INSERT INTO reminders").
			WithArgs(sqlmock.AnyArg(), rem.Type, domain.ReminderStatusPending, rem.Title,
				rem.Message, rem.DueDate, rem.ReminderDate, rentalID, rem.ItemSerial,
				rem.RentalID, rem.CalibrationID, rem.MaintenanceID, rem.ScheduleID,
				rem.UserID, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
				AddRow("rem-1", "PENDING", time.Now(), time.Now()))

		err := store.Reminders().Upsert(ctx, rem)
		require.NoError(t, err)
		assert.Equal(t, "rem-1", rem.ID)
		assert.Equal(t, domain.ReminderStatusPending, rem.Status)
	})

	t.Run("ConflictRefreshesExistingRow", func(t *testing.T) {
		// The ON CONFLICT path returns the pre-existing row id, which must
		// replace the candidate id the caller generated.
		rentalID := "rental-1"
		rem := &domain.Reminder{
			ID:           "candidate-id",
			Type:         domain.ReminderTypeRental,
			Status:       domain.ReminderStatusSent,
			Title:        "Rental due (updated)",
			DueDate:      time.Now().Add(24 * time.Hour),
			ReminderDate: time.Now(),
			RentalID:     &rentalID,
			UserID:       "user-1",
		}

		mock.ExpectQuery("INSERT INTO reminders").
			WithArgs("candidate-id", rem.Type, rem.Status, rem.Title, rem.Message,
				rem.DueDate, rem.ReminderDate, rentalID, rem.ItemSerial, rem.RentalID,
				rem.CalibrationID, rem.MaintenanceID, rem.ScheduleID, rem.UserID, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
				AddRow("existing-id", "PENDING", time.Now(), time.Now()))

		err := store.Reminders().Upsert(ctx, rem)
		require.NoError(t, err)
		assert.Equal(t, "existing-id", rem.ID)
		assert.Equal(t, domain.ReminderStatusPending, rem.Status)
	})
}

func TestReminderRepository_ListDue(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "type", "status", "title", "message", "due_date", "reminder_date",
		"item_serial", "rental_id", "calibration_id", "maintenance_id", "schedule_id",
		"user_id", "email_sent", "email_sent_at", "acknowledged_at", "created_at", "updated_at",
	}).AddRow("rem-1", "RENTAL", "PENDING", "Rental due", "", now.Add(48*time.Hour), now,
		nil, "rental-1", nil, nil, nil, "user-1", false, nil, nil, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM reminders\s+WHERE status <> 'ACKNOWLEDGED' AND reminder_date <= \$1`).
		WithArgs(now).
		WillReturnRows(rows)

	due, err := store.Reminders().ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, domain.ReminderTypeRental, due[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_Acknowledge(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()
	at := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE reminders SET status = 'ACKNOWLEDGED'").
			WithArgs(at, sqlmock.AnyArg(), "rem-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Reminders().Acknowledge(ctx, "rem-1", at))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE reminders SET status = 'ACKNOWLEDGED'").
			WithArgs(at, sqlmock.AnyArg(), "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.Reminders().Acknowledge(ctx, "missing", at), domain.ErrNotFound)
	})
}

func TestReminderRepository_MarkSentIsConditional(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE reminders SET status = 'SENT', updated_at = \$1 WHERE id = \$2 AND status = 'PENDING'`).
		WithArgs(sqlmock.AnyArg(), "rem-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Zero rows affected means the reminder already left PENDING; not an error.
	assert.NoError(t, store.Reminders().MarkSent(ctx, "rem-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

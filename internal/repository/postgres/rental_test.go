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

func newMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func rentalRows() *sqlmock.Rows {
	now := time.Now()
	end := now.Add(72 * time.Hour)
	return sqlmock.NewRows([]string{
		"id", "item_serial", "user_id", "customer_id", "po_number", "do_number",
		"renter_name", "status", "start_date", "end_date", "return_date",
		"return_condition", "created_at", "updated_at",
	}).AddRow("rental-1", "SN-001", "user-1", nil, "PO-7", "DO-7",
		"Acme Corp", "APPROVED", now, end, nil, "", now, now)
}

func TestRentalRepository_Create(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		end := time.Now().Add(72 * time.Hour)
		rt := &domain.Rental{
			ItemSerial: "SN-001",
			UserID:     "user-1",
			PONumber:   "PO-7",
			RenterName: "Acme Corp",
			Status:     domain.RequestStatusPending,
			StartDate:  time.Now(),
			EndDate:    &end,
		}

		mock.ExpectQuery("INSERT INTO rentals").
			WithArgs(sqlmock.AnyArg(), rt.ItemSerial, rt.UserID, rt.CustomerID,
				rt.PONumber, rt.DONumber, rt.RenterName, rt.Status, rt.StartDate,
				rt.EndDate, rt.ReturnDate, rt.ReturnCondition, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))

		err := store.Rentals().Create(ctx, rt)
		assert.NoError(t, err)
		assert.NotEmpty(t, rt.ID, "Create assigns an id when none is given")
		assert.False(t, rt.CreatedAt.IsZero())
	})
}

func TestRentalRepository_GetByID(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs("rental-1").
			WillReturnRows(rentalRows())

		rt, err := store.Rentals().GetByID(ctx, "rental-1")
		require.NoError(t, err)
		assert.Equal(t, "rental-1", rt.ID)
		assert.Equal(t, domain.RequestStatusApproved, rt.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.Rentals().GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalRepository_GetByIDForUpdate(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("LocksRow", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1 FOR UPDATE`).
			WithArgs("rental-1").
			WillReturnRows(rentalRows())

		rt, err := store.Rentals().GetByIDForUpdate(ctx, "rental-1")
		require.NoError(t, err)
		assert.Equal(t, "rental-1", rt.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_Update(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		returned := time.Now()
		rt := &domain.Rental{
			ID:              "rental-1",
			Status:          domain.RequestStatusCompleted,
			ReturnDate:      &returned,
			ReturnCondition: "good",
		}

		mock.ExpectExec("UPDATE rentals SET").
			WithArgs(rt.Status, rt.EndDate, rt.ReturnDate, rt.ReturnCondition, sqlmock.AnyArg(), rt.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Rentals().Update(ctx, rt))
	})

	t.Run("NotFound", func(t *testing.T) {
		rt := &domain.Rental{ID: "missing", Status: domain.RequestStatusCancelled}

		mock.ExpectExec("UPDATE rentals SET").
			WithArgs(rt.Status, rt.EndDate, rt.ReturnDate, rt.ReturnCondition, sqlmock.AnyArg(), rt.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.Rentals().Update(ctx, rt), domain.ErrNotFound)
	})
}

func TestRentalRepository_List(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("CountsThenPages", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT (.+) FROM rentals WHERE 1=1 AND user_id = \$1\) AS sub`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE 1=1 AND user_id = \$1 ORDER BY created_at DESC`).
			WithArgs("user-1", int32(20), int32(0)).
			WillReturnRows(rentalRows())

		rentals, total, err := store.Rentals().List(ctx, "user-1", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, rentals, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

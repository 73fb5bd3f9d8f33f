package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/ruddypp/Paramata-System/internal/repository"
)

func TestStoreWithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		store, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM notifications WHERE user_id = \$1 AND is_read = TRUE`).
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(tx repository.Store) error {
			_, err := tx.Notifications().DeleteRead(ctx, "user-1")
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		store, mock := newMockDB(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.WithinTx(ctx, func(repository.Store) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NestedCallJoinsTransaction", func(t *testing.T) {
		store, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(tx repository.Store) error {
			return tx.WithinTx(ctx, func(repository.Store) error { return nil })
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

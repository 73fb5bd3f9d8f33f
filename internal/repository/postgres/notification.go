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

type notificationRepository struct {
	q repository.Querier
}

const notificationColumns = `id, user_id, title, message, is_read, read_at, should_play_sound, reminder_id, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*domain.Notification, error) {
	n := &domain.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.ReadAt,
		&n.ShouldPlaySound, &n.ReminderID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create relies on the partial unique index over unread reminder-bound
// notifications: losing the race to another writer surfaces as
// ErrDuplicate instead of a second unread row.
func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	query := `INSERT INTO notifications (id, user_id, title, message, is_read, should_play_sound, reminder_id, created_at)
	          VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7)
	          ON CONFLICT (reminder_id) WHERE reminder_id IS NOT NULL AND is_read = FALSE DO NOTHING
	          RETURNING created_at`
	err := r.q.QueryRowContext(ctx, query, n.ID, n.UserID, n.Title, n.Message,
		n.ShouldPlaySound, n.ReminderID, time.Now()).Scan(&n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return n, err
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.q.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications
	          WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, count, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string, at time.Time) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2 AND user_id = $3 AND is_read = FALSE`
	_, err := r.q.ExecContext(ctx, query, at, id, userID)
	return err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE user_id = $2 AND is_read = FALSE`
	_, err := r.q.ExecContext(ctx, query, at, userID)
	return err
}

func (r *notificationRepository) DeleteRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1 AND is_read = TRUE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = TRUE AND read_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

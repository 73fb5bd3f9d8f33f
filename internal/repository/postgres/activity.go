package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type activityLogRepository struct {
	q repository.Querier
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	// The tagged target flattens into a (kind, ref) pair; both NULL when
	// the activity has no target.
	var targetKind, targetRef sql.NullString
	if !entry.Target.IsZero() {
		targetKind = sql.NullString{String: string(entry.Target.Kind), Valid: true}
		targetRef = sql.NullString{String: entry.Target.Ref, Valid: true}
	}

	query := `INSERT INTO activity_logs (id, type, action, details, user_id, affected_user_id, target_kind, target_ref, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`
	return r.q.QueryRowContext(ctx, query, entry.ID, entry.Type, entry.Action, entry.Details,
		entry.UserID, entry.AffectedUserID, targetKind, targetRef, time.Now()).Scan(&entry.CreatedAt)
}

func (r *activityLogRepository) List(ctx context.Context, page, pageSize int32) ([]domain.ActivityLog, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM activity_logs`).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, type, action, details, user_id, affected_user_id, target_kind, target_ref, created_at
	          FROM activity_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.ActivityLog
	for rows.Next() {
		var e domain.ActivityLog
		var targetKind, targetRef sql.NullString
		if err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.Details, &e.UserID,
			&e.AffectedUserID, &targetKind, &targetRef, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if targetKind.Valid {
			e.Target = domain.ActivityTarget{
				Kind: domain.ActivityTargetKind(targetKind.String),
				Ref:  targetRef.String,
			}
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}

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

type scheduleRepository struct {
	q repository.Querier
}

const scheduleColumns = `id, name, frequency, next_date, description, user_id, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (*domain.InventorySchedule, error) {
	s := &domain.InventorySchedule{}
	err := row.Scan(&s.ID, &s.Name, &s.Frequency, &s.NextDate, &s.Description,
		&s.UserID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *scheduleRepository) Create(ctx context.Context, s *domain.InventorySchedule) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `INSERT INTO inventory_schedules (id, name, frequency, next_date, description, user_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	now := time.Now()
	return r.q.QueryRowContext(ctx, query, s.ID, s.Name, s.Frequency, s.NextDate,
		s.Description, s.UserID, now, now).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*domain.InventorySchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM inventory_schedules WHERE id = $1`
	s, err := scanSchedule(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", id, domain.ErrNotFound)
	}
	return s, err
}

func (r *scheduleRepository) Update(ctx context.Context, s *domain.InventorySchedule) error {
	query := `UPDATE inventory_schedules SET name=$1, frequency=$2, next_date=$3, description=$4, updated_at=$5 WHERE id=$6`
	res, err := r.q.ExecContext(ctx, query, s.Name, s.Frequency, s.NextDate, s.Description, time.Now(), s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *scheduleRepository) List(ctx context.Context, page, pageSize int32) ([]domain.InventorySchedule, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM inventory_schedules`).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + scheduleColumns + ` FROM inventory_schedules ORDER BY next_date LIMIT $1 OFFSET $2`
	rows, err := r.q.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var schedules []domain.InventorySchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, count, rows.Err()
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]domain.InventorySchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM inventory_schedules WHERE next_date <= $1 ORDER BY next_date`
	rows, err := r.q.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.InventorySchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

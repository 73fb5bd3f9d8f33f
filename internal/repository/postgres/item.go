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

type itemRepository struct {
	q repository.Querier
}

const itemColumns = `serial_number, name, part_number, sensor, description, customer_id, status, last_verified_at, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	it := &domain.Item{}
	err := row.Scan(&it.SerialNumber, &it.Name, &it.PartNumber, &it.Sensor, &it.Description,
		&it.CustomerID, &it.Status, &it.LastVerifiedAt, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	if item.Status == "" {
		item.Status = domain.ItemStatusAvailable
	}
	query := `INSERT INTO items (serial_number, name, part_number, sensor, description, customer_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`
	now := time.Now()
	return r.q.QueryRowContext(ctx, query, item.SerialNumber, item.Name, item.PartNumber,
		item.Sensor, item.Description, item.CustomerID, item.Status, now, now).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *itemRepository) GetBySerial(ctx context.Context, serial string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE serial_number = $1`
	it, err := scanItem(r.q.QueryRowContext(ctx, query, serial))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", serial, domain.ErrNotFound)
	}
	return it, err
}

func (r *itemRepository) GetBySerialForUpdate(ctx context.Context, serial string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE serial_number = $1 FOR UPDATE`
	it, err := scanItem(r.q.QueryRowContext(ctx, query, serial))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", serial, domain.ErrNotFound)
	}
	return it, err
}

func (r *itemRepository) UpdateStatus(ctx context.Context, serial string, status domain.ItemStatus) error {
	query := `UPDATE items SET status = $1, updated_at = $2 WHERE serial_number = $3`
	res, err := r.q.ExecContext(ctx, query, status, time.Now(), serial)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %s: %w", serial, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) SetLastVerified(ctx context.Context, serial string, verifiedAt time.Time) error {
	query := `UPDATE items SET last_verified_at = $1, updated_at = $2 WHERE serial_number = $3`
	_, err := r.q.ExecContext(ctx, query, verifiedAt, time.Now(), serial)
	return err
}

func (r *itemRepository) List(ctx context.Context, status domain.ItemStatus, page, pageSize int32) ([]domain.Item, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + itemColumns + ` FROM items`
	args := []any{}
	argIdx := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY serial_number LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *it)
	}
	return items, count, rows.Err()
}

func (r *itemRepository) OpenHistory(ctx context.Context, h *domain.ItemHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `INSERT INTO item_history (id, item_serial, action, rental_id, start_date, end_date, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	return r.q.QueryRowContext(ctx, query, h.ID, h.ItemSerial, h.Action, h.RentalID,
		h.StartDate, h.EndDate, h.Details, time.Now()).Scan(&h.CreatedAt)
}

func (r *itemRepository) CloseHistoryByRental(ctx context.Context, rentalID string, endDate time.Time) error {
	query := `UPDATE item_history SET end_date = $1 WHERE rental_id = $2 AND end_date IS NULL`
	_, err := r.q.ExecContext(ctx, query, endDate, rentalID)
	return err
}

func (r *itemRepository) ListHistory(ctx context.Context, serial string) ([]domain.ItemHistory, error) {
	query := `SELECT id, item_serial, action, rental_id, start_date, end_date, details, created_at
	          FROM item_history WHERE item_serial = $1 ORDER BY start_date DESC`
	rows, err := r.q.QueryContext(ctx, query, serial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.ItemHistory
	for rows.Next() {
		var h domain.ItemHistory
		if err := rows.Scan(&h.ID, &h.ItemSerial, &h.Action, &h.RentalID,
			&h.StartDate, &h.EndDate, &h.Details, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

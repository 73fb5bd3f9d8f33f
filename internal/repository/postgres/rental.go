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

type rentalRepository struct {
	q repository.Querier
}

const rentalColumns = `id, item_serial, user_id, customer_id, po_number, do_number, renter_name, status, start_date, end_date, return_date, return_condition, created_at, updated_at`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.ItemSerial, &rt.UserID, &rt.CustomerID, &rt.PONumber,
		&rt.DONumber, &rt.RenterName, &rt.Status, &rt.StartDate, &rt.EndDate,
		&rt.ReturnDate, &rt.ReturnCondition, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	query := `INSERT INTO rentals (id, item_serial, user_id, customer_id, po_number, do_number, renter_name, status, start_date, end_date, return_date, return_condition, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING created_at, updated_at`
	now := time.Now()
	return r.q.QueryRowContext(ctx, query, rt.ID, rt.ItemSerial, rt.UserID, rt.CustomerID,
		rt.PONumber, rt.DONumber, rt.RenterName, rt.Status, rt.StartDate, rt.EndDate,
		rt.ReturnDate, rt.ReturnCondition, now, now).Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental %s: %w", id, domain.ErrNotFound)
	}
	return rt, err
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	rt, err := scanRental(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental %s: %w", id, domain.ErrNotFound)
	}
	return rt, err
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, end_date=$2, return_date=$3, return_condition=$4, updated_at=$5 WHERE id=$6`
	res, err := r.q.ExecContext(ctx, query, rt.Status, rt.EndDate, rt.ReturnDate, rt.ReturnCondition, time.Now(), rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rental %s: %w", rt.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *rentalRepository) List(ctx context.Context, userID string, status domain.RequestStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE 1=1`
	args := []any{}
	argIdx := 1
	if userID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, userID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) CreateStatusLog(ctx context.Context, log *domain.RentalStatusLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	query := `INSERT INTO rental_status_logs (id, rental_id, status, notes, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	return r.q.QueryRowContext(ctx, query, log.ID, log.RentalID, log.Status, log.Notes,
		log.UserID, time.Now()).Scan(&log.CreatedAt)
}

func (r *rentalRepository) ListStatusLogs(ctx context.Context, rentalID string) ([]domain.RentalStatusLog, error) {
	query := `SELECT id, rental_id, status, notes, user_id, created_at
	          FROM rental_status_logs WHERE rental_id = $1 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.RentalStatusLog
	for rows.Next() {
		var l domain.RentalStatusLog
		if err := rows.Scan(&l.ID, &l.RentalID, &l.Status, &l.Notes, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

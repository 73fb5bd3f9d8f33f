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

type maintenanceRepository struct {
	q repository.Querier
}

const maintenanceColumns = `id, item_serial, user_id, status, start_date, end_date, created_at, updated_at`

func scanMaintenance(row interface{ Scan(...any) error }) (*domain.Maintenance, error) {
	m := &domain.Maintenance{}
	err := row.Scan(&m.ID, &m.ItemSerial, &m.UserID, &m.Status, &m.StartDate, &m.EndDate,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `INSERT INTO maintenances (id, item_serial, user_id, status, start_date, end_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	now := time.Now()
	return r.q.QueryRowContext(ctx, query, m.ID, m.ItemSerial, m.UserID, m.Status,
		m.StartDate, m.EndDate, now, now).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id string) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE id = $1`
	m, err := scanMaintenance(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("maintenance %s: %w", id, domain.ErrNotFound)
	}
	return m, err
}

func (r *maintenanceRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE id = $1 FOR UPDATE`
	m, err := scanMaintenance(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("maintenance %s: %w", id, domain.ErrNotFound)
	}
	return m, err
}

func (r *maintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	query := `UPDATE maintenances SET status=$1, end_date=$2, updated_at=$3 WHERE id=$4`
	res, err := r.q.ExecContext(ctx, query, m.Status, m.EndDate, time.Now(), m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("maintenance %s: %w", m.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *maintenanceRepository) List(ctx context.Context, userID string, status domain.RequestStatus, page, pageSize int32) ([]domain.Maintenance, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE 1=1`
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

	var list []domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *m)
	}
	return list, count, rows.Err()
}

func (r *maintenanceRepository) CreateStatusLog(ctx context.Context, log *domain.MaintenanceStatusLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	query := `INSERT INTO maintenance_status_logs (id, maintenance_id, status, notes, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	return r.q.QueryRowContext(ctx, query, log.ID, log.MaintenanceID, log.Status, log.Notes,
		log.UserID, time.Now()).Scan(&log.CreatedAt)
}

func (r *maintenanceRepository) ListStatusLogs(ctx context.Context, maintenanceID string) ([]domain.MaintenanceStatusLog, error) {
	query := `SELECT id, maintenance_id, status, notes, user_id, created_at
	          FROM maintenance_status_logs WHERE maintenance_id = $1 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, maintenanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.MaintenanceStatusLog
	for rows.Next() {
		var l domain.MaintenanceStatusLog
		if err := rows.Scan(&l.ID, &l.MaintenanceID, &l.Status, &l.Notes, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *maintenanceRepository) SaveServiceReport(ctx context.Context, report *domain.ServiceReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	query := `INSERT INTO service_reports (id, maintenance_id, report_number, reason_for_return, findings, action_taken, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (maintenance_id) DO UPDATE SET
	              report_number = EXCLUDED.report_number,
	              reason_for_return = EXCLUDED.reason_for_return,
	              findings = EXCLUDED.findings,
	              action_taken = EXCLUDED.action_taken
	          RETURNING id, created_at`
	return r.q.QueryRowContext(ctx, query, report.ID, report.MaintenanceID, report.ReportNumber,
		report.ReasonForReturn, report.Findings, report.ActionTaken, time.Now()).
		Scan(&report.ID, &report.CreatedAt)
}

func (r *maintenanceRepository) GetServiceReport(ctx context.Context, maintenanceID string) (*domain.ServiceReport, error) {
	query := `SELECT id, maintenance_id, report_number, reason_for_return, findings, action_taken, created_at
	          FROM service_reports WHERE maintenance_id = $1`
	rep := &domain.ServiceReport{}
	err := r.q.QueryRowContext(ctx, query, maintenanceID).Scan(&rep.ID, &rep.MaintenanceID,
		&rep.ReportNumber, &rep.ReasonForReturn, &rep.Findings, &rep.ActionTaken, &rep.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("service report for maintenance %s: %w", maintenanceID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *maintenanceRepository) SaveTechnicalReport(ctx context.Context, report *domain.TechnicalReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	query := `INSERT INTO technical_reports (id, maintenance_id, report_number, comments, recommendation, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (maintenance_id) DO UPDATE SET
	              report_number = EXCLUDED.report_number,
	              comments = EXCLUDED.comments,
	              recommendation = EXCLUDED.recommendation
	          RETURNING id, created_at`
	return r.q.QueryRowContext(ctx, query, report.ID, report.MaintenanceID, report.ReportNumber,
		report.Comments, report.Recommendation, time.Now()).Scan(&report.ID, &report.CreatedAt)
}

func (r *maintenanceRepository) GetTechnicalReport(ctx context.Context, maintenanceID string) (*domain.TechnicalReport, error) {
	query := `SELECT id, maintenance_id, report_number, comments, recommendation, created_at
	          FROM technical_reports WHERE maintenance_id = $1`
	rep := &domain.TechnicalReport{}
	err := r.q.QueryRowContext(ctx, query, maintenanceID).Scan(&rep.ID, &rep.MaintenanceID,
		&rep.ReportNumber, &rep.Comments, &rep.Recommendation, &rep.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("technical report for maintenance %s: %w", maintenanceID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

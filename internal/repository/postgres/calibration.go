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

type calibrationRepository struct {
	q repository.Querier
}

const calibrationColumns = `id, item_serial, user_id, customer_id, status, calibration_date, valid_until, certificate_number, created_at, updated_at`

func scanCalibration(row interface{ Scan(...any) error }) (*domain.Calibration, error) {
	cal := &domain.Calibration{}
	err := row.Scan(&cal.ID, &cal.ItemSerial, &cal.UserID, &cal.CustomerID, &cal.Status,
		&cal.CalibrationDate, &cal.ValidUntil, &cal.CertificateNumber, &cal.CreatedAt, &cal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cal, nil
}

func (r *calibrationRepository) Create(ctx context.Context, cal *domain.Calibration) error {
	if cal.ID == "" {
		cal.ID = uuid.NewString()
	}
	query := `INSERT INTO calibrations (id, item_serial, user_id, customer_id, status, calibration_date, valid_until, certificate_number, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at, updated_at`
	now := time.Now()
	return r.q.QueryRowContext(ctx, query, cal.ID, cal.ItemSerial, cal.UserID, cal.CustomerID,
		cal.Status, cal.CalibrationDate, cal.ValidUntil, cal.CertificateNumber, now, now).
		Scan(&cal.CreatedAt, &cal.UpdatedAt)
}

func (r *calibrationRepository) GetByID(ctx context.Context, id string) (*domain.Calibration, error) {
	query := `SELECT ` + calibrationColumns + ` FROM calibrations WHERE id = $1`
	cal, err := scanCalibration(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calibration %s: %w", id, domain.ErrNotFound)
	}
	return cal, err
}

func (r *calibrationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Calibration, error) {
	query := `SELECT ` + calibrationColumns + ` FROM calibrations WHERE id = $1 FOR UPDATE`
	cal, err := scanCalibration(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calibration %s: %w", id, domain.ErrNotFound)
	}
	return cal, err
}

func (r *calibrationRepository) Update(ctx context.Context, cal *domain.Calibration) error {
	query := `UPDATE calibrations SET status=$1, valid_until=$2, certificate_number=$3, updated_at=$4 WHERE id=$5`
	res, err := r.q.ExecContext(ctx, query, cal.Status, cal.ValidUntil, cal.CertificateNumber, time.Now(), cal.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("calibration %s: %w", cal.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *calibrationRepository) List(ctx context.Context, userID string, status domain.RequestStatus, page, pageSize int32) ([]domain.Calibration, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + calibrationColumns + ` FROM calibrations WHERE 1=1`
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

	var cals []domain.Calibration
	for rows.Next() {
		cal, err := scanCalibration(rows)
		if err != nil {
			return nil, 0, err
		}
		cals = append(cals, *cal)
	}
	return cals, count, rows.Err()
}

func (r *calibrationRepository) CreateStatusLog(ctx context.Context, log *domain.CalibrationStatusLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	query := `INSERT INTO calibration_status_logs (id, calibration_id, status, notes, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	return r.q.QueryRowContext(ctx, query, log.ID, log.CalibrationID, log.Status, log.Notes,
		log.UserID, time.Now()).Scan(&log.CreatedAt)
}

func (r *calibrationRepository) ListStatusLogs(ctx context.Context, calibrationID string) ([]domain.CalibrationStatusLog, error) {
	query := `SELECT id, calibration_id, status, notes, user_id, created_at
	          FROM calibration_status_logs WHERE calibration_id = $1 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, calibrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.CalibrationStatusLog
	for rows.Next() {
		var l domain.CalibrationStatusLog
		if err := rows.Scan(&l.ID, &l.CalibrationID, &l.Status, &l.Notes, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *calibrationRepository) SaveCertificate(ctx context.Context, cert *domain.CalibrationCertificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	query := `INSERT INTO calibration_certificates (id, calibration_id, manufacturer, instrument_name, model_number, configuration, approved_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (calibration_id) DO UPDATE SET
	              manufacturer = EXCLUDED.manufacturer,
	              instrument_name = EXCLUDED.instrument_name,
	              model_number = EXCLUDED.model_number,
	              configuration = EXCLUDED.configuration,
	              approved_by = EXCLUDED.approved_by
	          RETURNING id, created_at`
	if err := r.q.QueryRowContext(ctx, query, cert.ID, cert.CalibrationID, cert.Manufacturer,
		cert.InstrumentName, cert.ModelNumber, cert.Configuration, cert.ApprovedBy, time.Now()).
		Scan(&cert.ID, &cert.CreatedAt); err != nil {
		return err
	}

	for i := range cert.GasEntries {
		entry := &cert.GasEntries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.CertificateID = cert.ID
		entryQuery := `INSERT INTO gas_calibration_entries (id, certificate_id, gas_type, gas_concentration, gas_balance, gas_batch_number, test_sensor, test_span, test_result, created_at)
		               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`
		if err := r.q.QueryRowContext(ctx, entryQuery, entry.ID, entry.CertificateID, entry.GasType,
			entry.GasConcentration, entry.GasBalance, entry.GasBatchNumber, entry.TestSensor,
			entry.TestSpan, entry.TestResult, time.Now()).Scan(&entry.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *calibrationRepository) GetCertificate(ctx context.Context, calibrationID string) (*domain.CalibrationCertificate, error) {
	query := `SELECT id, calibration_id, manufacturer, instrument_name, model_number, configuration, approved_by, created_at
	          FROM calibration_certificates WHERE calibration_id = $1`
	cert := &domain.CalibrationCertificate{}
	err := r.q.QueryRowContext(ctx, query, calibrationID).Scan(&cert.ID, &cert.CalibrationID,
		&cert.Manufacturer, &cert.InstrumentName, &cert.ModelNumber, &cert.Configuration,
		&cert.ApprovedBy, &cert.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("certificate for calibration %s: %w", calibrationID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	entryQuery := `SELECT id, certificate_id, gas_type, gas_concentration, gas_balance, gas_batch_number, test_sensor, test_span, test_result, created_at
	               FROM gas_calibration_entries WHERE certificate_id = $1 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, entryQuery, cert.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.GasCalibrationEntry
		if err := rows.Scan(&e.ID, &e.CertificateID, &e.GasType, &e.GasConcentration,
			&e.GasBalance, &e.GasBatchNumber, &e.TestSensor, &e.TestSpan, &e.TestResult, &e.CreatedAt); err != nil {
			return nil, err
		}
		cert.GasEntries = append(cert.GasEntries, e)
	}
	return cert, rows.Err()
}

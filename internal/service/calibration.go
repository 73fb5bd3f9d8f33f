package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type CreateCalibrationInput struct {
	ItemSerial        string
	UserID            string // defaults to the actor
	CustomerID        *string
	CalibrationDate   time.Time
	ValidUntil        *time.Time
	CertificateNumber string
}

type calibrationHandle struct {
	cal *domain.Calibration
}

func (h *calibrationHandle) kind() domain.RequestKind         { return domain.KindCalibration }
func (h *calibrationHandle) recordID() string                 { return h.cal.ID }
func (h *calibrationHandle) itemSerial() string               { return h.cal.ItemSerial }
func (h *calibrationHandle) ownerID() string                  { return h.cal.UserID }
func (h *calibrationHandle) status() domain.RequestStatus     { return h.cal.Status }
func (h *calibrationHandle) setStatus(s domain.RequestStatus) { h.cal.Status = s }

func (h *calibrationHandle) save(ctx context.Context, s repository.Store) error {
	return s.Calibrations().Update(ctx, h.cal)
}

func (h *calibrationHandle) logStatus(ctx context.Context, s repository.Store, notes, actorID string) error {
	return s.Calibrations().CreateStatusLog(ctx, &domain.CalibrationStatusLog{
		CalibrationID: h.cal.ID,
		Status:        h.cal.Status,
		Notes:         notes,
		UserID:        actorID,
	})
}

func (h *calibrationHandle) onApproved(_ context.Context, _ repository.Store, _ time.Time) error {
	return nil
}

// onClosed on COMPLETED fixes the validity window and marks the item as
// freshly verified.
func (h *calibrationHandle) onClosed(ctx context.Context, s repository.Store, target domain.RequestStatus, _ time.Time) error {
	if target != domain.RequestStatusCompleted {
		return nil
	}
	if h.cal.ValidUntil == nil {
		validUntil := h.cal.CalibrationDate.AddDate(1, 0, 0)
		h.cal.ValidUntil = &validUntil
	}
	return s.Items().SetLastVerified(ctx, h.cal.ItemSerial, h.cal.CalibrationDate)
}

func (s *requestService) CreateCalibration(ctx context.Context, actor domain.Principal, input CreateCalibrationInput) (*domain.Calibration, error) {
	if input.ItemSerial == "" {
		return nil, fmt.Errorf("item serial is required: %w", domain.ErrNotFound)
	}
	ownerID := input.UserID
	if ownerID == "" || !actor.IsAdmin() {
		ownerID = actor.ID
	}
	if input.CalibrationDate.IsZero() {
		input.CalibrationDate = s.clock.Now()
	}

	autoApprove := actor.IsAdmin()
	cal := &domain.Calibration{
		ItemSerial:        input.ItemSerial,
		UserID:            ownerID,
		CustomerID:        input.CustomerID,
		Status:            domain.RequestStatusPending,
		CalibrationDate:   input.CalibrationDate,
		ValidUntil:        input.ValidUntil,
		CertificateNumber: input.CertificateNumber,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := checkItemAvailable(ctx, tx, input.ItemSerial); err != nil {
			return err
		}
		if err := tx.Calibrations().Create(ctx, cal); err != nil {
			return fmt.Errorf("create calibration: %w", err)
		}

		h := &calibrationHandle{cal: cal}
		if err := h.logStatus(ctx, tx, "Calibration requested", actor.ID); err != nil {
			return fmt.Errorf("write status log: %w", err)
		}
		entry := &domain.ActivityLog{
			Type:           createActivityType(domain.KindCalibration),
			Action:         fmt.Sprintf("Calibration %s created for item %s", cal.ID, cal.ItemSerial),
			UserID:         actor.ID,
			AffectedUserID: &ownerID,
			Target:         domain.CalibrationTarget(cal.ID),
		}
		if err := tx.Activities().Create(ctx, entry); err != nil {
			return fmt.Errorf("write activity log: %w", err)
		}

		if autoApprove {
			return s.applyTransition(ctx, tx, h, domain.RequestStatusApproved, actor, "Auto-approved on creation", s.clock.Now())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if autoApprove {
		s.afterTransition(domain.KindCalibration, cal.ID, domain.RequestStatusApproved)
	}
	return s.GetCalibration(ctx, actor, cal.ID)
}

func (s *requestService) TransitionCalibration(ctx context.Context, actor domain.Principal, id string, target domain.RequestStatus, notes string) (*domain.Calibration, error) {
	var cal *domain.Calibration
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		loaded, err := tx.Calibrations().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		cal = loaded
		h := &calibrationHandle{cal: cal}
		return s.applyTransition(ctx, tx, h, target, actor, notes, s.clock.Now())
	})
	if err != nil {
		s.rejectMetric(domain.KindCalibration, err)
		return nil, err
	}

	s.afterTransition(domain.KindCalibration, cal.ID, target)
	return s.GetCalibration(ctx, actor, id)
}

func (s *requestService) GetCalibration(ctx context.Context, actor domain.Principal, id string) (*domain.Calibration, error) {
	cal, err := s.store.Calibrations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && cal.UserID != actor.ID {
		return nil, domain.ErrUnauthorized
	}

	if item, err := s.store.Items().GetBySerial(ctx, cal.ItemSerial); err == nil {
		cal.Item = item
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if cert, err := s.store.Calibrations().GetCertificate(ctx, cal.ID); err == nil {
		cal.Certificate = cert
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	logs, err := s.store.Calibrations().ListStatusLogs(ctx, cal.ID)
	if err != nil {
		return nil, err
	}
	cal.StatusLogs = logs
	return cal, nil
}

func (s *requestService) ListCalibrations(ctx context.Context, actor domain.Principal, status domain.RequestStatus, page, pageSize int32) ([]domain.Calibration, int32, error) {
	userID := ""
	if !actor.IsAdmin() {
		userID = actor.ID
	}
	return s.store.Calibrations().List(ctx, userID, status, page, pageSize)
}

// SaveCalibrationCertificate stores the finalized certificate data the
// external renderer consumes. Only open or completed calibrations accept
// certificate edits by the admin.
func (s *requestService) SaveCalibrationCertificate(ctx context.Context, actor domain.Principal, calibrationID string, cert *domain.CalibrationCertificate) error {
	if !actor.IsAdmin() {
		return domain.ErrUnauthorized
	}
	cal, err := s.store.Calibrations().GetByID(ctx, calibrationID)
	if err != nil {
		return err
	}
	if cal.Status == domain.RequestStatusCancelled || cal.Status == domain.RequestStatusRejected {
		return domain.NewIllegalTransition(domain.KindCalibration, cal.Status, cal.Status)
	}
	cert.CalibrationID = calibrationID
	return s.store.Calibrations().SaveCertificate(ctx, cert)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type CreateMaintenanceInput struct {
	ItemSerial string
	UserID     string // defaults to the actor
	StartDate  time.Time
}

type maintenanceHandle struct {
	m *domain.Maintenance
}

func (h *maintenanceHandle) kind() domain.RequestKind         { return domain.KindMaintenance }
func (h *maintenanceHandle) recordID() string                 { return h.m.ID }
func (h *maintenanceHandle) itemSerial() string               { return h.m.ItemSerial }
func (h *maintenanceHandle) ownerID() string                  { return h.m.UserID }
func (h *maintenanceHandle) status() domain.RequestStatus     { return h.m.Status }
func (h *maintenanceHandle) setStatus(s domain.RequestStatus) { h.m.Status = s }

func (h *maintenanceHandle) save(ctx context.Context, s repository.Store) error {
	return s.Maintenances().Update(ctx, h.m)
}

func (h *maintenanceHandle) logStatus(ctx context.Context, s repository.Store, notes, actorID string) error {
	return s.Maintenances().CreateStatusLog(ctx, &domain.MaintenanceStatusLog{
		MaintenanceID: h.m.ID,
		Status:        h.m.Status,
		Notes:         notes,
		UserID:        actorID,
	})
}

func (h *maintenanceHandle) onApproved(_ context.Context, _ repository.Store, _ time.Time) error {
	return nil
}

func (h *maintenanceHandle) onClosed(_ context.Context, _ repository.Store, target domain.RequestStatus, now time.Time) error {
	if target == domain.RequestStatusCompleted && h.m.EndDate == nil {
		h.m.EndDate = &now
	}
	return nil
}

// CreateMaintenance is the one self-service creation path: users submit
// maintenance forms for their own instruments. No auto-approval even for
// admins; the work has to be accepted explicitly.
func (s *requestService) CreateMaintenance(ctx context.Context, actor domain.Principal, input CreateMaintenanceInput) (*domain.Maintenance, error) {
	if input.ItemSerial == "" {
		return nil, fmt.Errorf("item serial is required: %w", domain.ErrNotFound)
	}
	ownerID := input.UserID
	if ownerID == "" || !actor.IsAdmin() {
		ownerID = actor.ID
	}
	if input.StartDate.IsZero() {
		input.StartDate = s.clock.Now()
	}

	m := &domain.Maintenance{
		ItemSerial: input.ItemSerial,
		UserID:     ownerID,
		Status:     domain.RequestStatusPending,
		StartDate:  input.StartDate,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := checkItemAvailable(ctx, tx, input.ItemSerial); err != nil {
			return err
		}
		if err := tx.Maintenances().Create(ctx, m); err != nil {
			return fmt.Errorf("create maintenance: %w", err)
		}

		h := &maintenanceHandle{m: m}
		if err := h.logStatus(ctx, tx, "Maintenance requested", actor.ID); err != nil {
			return fmt.Errorf("write status log: %w", err)
		}
		entry := &domain.ActivityLog{
			Type:           createActivityType(domain.KindMaintenance),
			Action:         fmt.Sprintf("Maintenance %s created for item %s", m.ID, m.ItemSerial),
			UserID:         actor.ID,
			AffectedUserID: &ownerID,
			Target:         domain.MaintenanceTarget(m.ID),
		}
		return tx.Activities().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaintenance(ctx, actor, m.ID)
}

func (s *requestService) TransitionMaintenance(ctx context.Context, actor domain.Principal, id string, target domain.RequestStatus, notes string) (*domain.Maintenance, error) {
	var m *domain.Maintenance
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		loaded, err := tx.Maintenances().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		m = loaded
		h := &maintenanceHandle{m: m}
		return s.applyTransition(ctx, tx, h, target, actor, notes, s.clock.Now())
	})
	if err != nil {
		s.rejectMetric(domain.KindMaintenance, err)
		return nil, err
	}

	s.afterTransition(domain.KindMaintenance, m.ID, target)
	return s.GetMaintenance(ctx, actor, id)
}

func (s *requestService) GetMaintenance(ctx context.Context, actor domain.Principal, id string) (*domain.Maintenance, error) {
	m, err := s.store.Maintenances().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && m.UserID != actor.ID {
		return nil, domain.ErrUnauthorized
	}

	if item, err := s.store.Items().GetBySerial(ctx, m.ItemSerial); err == nil {
		m.Item = item
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if rep, err := s.store.Maintenances().GetServiceReport(ctx, m.ID); err == nil {
		m.ServiceReport = rep
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if rep, err := s.store.Maintenances().GetTechnicalReport(ctx, m.ID); err == nil {
		m.TechnicalReport = rep
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	logs, err := s.store.Maintenances().ListStatusLogs(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.StatusLogs = logs
	return m, nil
}

func (s *requestService) ListMaintenances(ctx context.Context, actor domain.Principal, status domain.RequestStatus, page, pageSize int32) ([]domain.Maintenance, int32, error) {
	userID := ""
	if !actor.IsAdmin() {
		userID = actor.ID
	}
	return s.store.Maintenances().List(ctx, userID, status, page, pageSize)
}

func (s *requestService) SubmitServiceReport(ctx context.Context, actor domain.Principal, maintenanceID string, report *domain.ServiceReport) error {
	return s.submitMaintenanceReport(ctx, actor, maintenanceID, func(tx repository.Store) error {
		report.MaintenanceID = maintenanceID
		return tx.Maintenances().SaveServiceReport(ctx, report)
	})
}

func (s *requestService) SubmitTechnicalReport(ctx context.Context, actor domain.Principal, maintenanceID string, report *domain.TechnicalReport) error {
	return s.submitMaintenanceReport(ctx, actor, maintenanceID, func(tx repository.Store) error {
		report.MaintenanceID = maintenanceID
		return tx.Maintenances().SaveTechnicalReport(ctx, report)
	})
}

// Reports are accepted while the engagement is open (APPROVED) or already
// completed; owners may file their own, admins any.
func (s *requestService) submitMaintenanceReport(ctx context.Context, actor domain.Principal, maintenanceID string, saveFn func(repository.Store) error) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		m, err := tx.Maintenances().GetByID(ctx, maintenanceID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && m.UserID != actor.ID {
			return domain.ErrUnauthorized
		}
		if m.Status != domain.RequestStatusApproved && m.Status != domain.RequestStatusCompleted {
			return domain.NewIllegalTransition(domain.KindMaintenance, m.Status, m.Status)
		}
		return saveFn(tx)
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

type CreateRentalInput struct {
	ItemSerial string
	UserID     string // defaults to the actor
	CustomerID *string
	PONumber   string
	DONumber   string
	RenterName string
	StartDate  time.Time
	EndDate    *time.Time
}

type rentalHandle struct {
	rt              *domain.Rental
	returnCondition string
}

func (h *rentalHandle) kind() domain.RequestKind         { return domain.KindRental }
func (h *rentalHandle) recordID() string                 { return h.rt.ID }
func (h *rentalHandle) itemSerial() string               { return h.rt.ItemSerial }
func (h *rentalHandle) ownerID() string                  { return h.rt.UserID }
func (h *rentalHandle) status() domain.RequestStatus     { return h.rt.Status }
func (h *rentalHandle) setStatus(s domain.RequestStatus) { h.rt.Status = s }

func (h *rentalHandle) save(ctx context.Context, s repository.Store) error {
	return s.Rentals().Update(ctx, h.rt)
}

func (h *rentalHandle) logStatus(ctx context.Context, s repository.Store, notes, actorID string) error {
	return s.Rentals().CreateStatusLog(ctx, &domain.RentalStatusLog{
		RentalID: h.rt.ID,
		Status:   h.rt.Status,
		Notes:    notes,
		UserID:   actorID,
	})
}

// onApproved opens the usage history row for the engagement.
func (h *rentalHandle) onApproved(ctx context.Context, s repository.Store, now time.Time) error {
	return s.Items().OpenHistory(ctx, &domain.ItemHistory{
		ItemSerial: h.rt.ItemSerial,
		Action:     domain.ItemHistoryActionRented,
		RentalID:   &h.rt.ID,
		StartDate:  now,
		Details:    fmt.Sprintf("Rented to %s", h.rt.RenterName),
	})
}

// onClosed stamps the return and closes the open history row. CANCELLED
// from APPROVED also closes it: the item is back on the shelf.
func (h *rentalHandle) onClosed(ctx context.Context, s repository.Store, target domain.RequestStatus, now time.Time) error {
	if target == domain.RequestStatusCompleted {
		if h.rt.ReturnDate == nil {
			h.rt.ReturnDate = &now
		}
		if h.returnCondition != "" {
			h.rt.ReturnCondition = h.returnCondition
		}
	}
	return s.Items().CloseHistoryByRental(ctx, h.rt.ID, now)
}

func (s *requestService) CreateRental(ctx context.Context, actor domain.Principal, input CreateRentalInput) (*domain.Rental, error) {
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

	autoApprove := actor.IsAdmin()
	rt := &domain.Rental{
		ItemSerial: input.ItemSerial,
		UserID:     ownerID,
		CustomerID: input.CustomerID,
		PONumber:   input.PONumber,
		DONumber:   input.DONumber,
		RenterName: input.RenterName,
		Status:     domain.RequestStatusPending,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := checkItemAvailable(ctx, tx, input.ItemSerial); err != nil {
			return err
		}
		if err := tx.Rentals().Create(ctx, rt); err != nil {
			return fmt.Errorf("create rental: %w", err)
		}

		h := &rentalHandle{rt: rt}
		if err := h.logStatus(ctx, tx, "Rental requested", actor.ID); err != nil {
			return fmt.Errorf("write status log: %w", err)
		}
		entry := &domain.ActivityLog{
			Type:           createActivityType(domain.KindRental),
			Action:         fmt.Sprintf("Rental %s created for item %s", rt.ID, rt.ItemSerial),
			UserID:         actor.ID,
			AffectedUserID: &ownerID,
			Target:         domain.RentalTarget(rt.ID),
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
		s.afterTransition(domain.KindRental, rt.ID, domain.RequestStatusApproved)
	}
	return s.GetRental(ctx, actor, rt.ID)
}

func (s *requestService) TransitionRental(ctx context.Context, actor domain.Principal, id string, target domain.RequestStatus, notes, returnCondition string) (*domain.Rental, error) {
	var rt *domain.Rental
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		loaded, err := tx.Rentals().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		rt = loaded
		h := &rentalHandle{rt: rt, returnCondition: returnCondition}
		return s.applyTransition(ctx, tx, h, target, actor, notes, s.clock.Now())
	})
	if err != nil {
		s.rejectMetric(domain.KindRental, err)
		return nil, err
	}

	s.afterTransition(domain.KindRental, rt.ID, target)
	return s.GetRental(ctx, actor, id)
}

func (s *requestService) GetRental(ctx context.Context, actor domain.Principal, id string) (*domain.Rental, error) {
	rt, err := s.store.Rentals().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && rt.UserID != actor.ID {
		return nil, domain.ErrUnauthorized
	}

	if item, err := s.store.Items().GetBySerial(ctx, rt.ItemSerial); err == nil {
		rt.Item = item
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	logs, err := s.store.Rentals().ListStatusLogs(ctx, rt.ID)
	if err != nil {
		return nil, err
	}
	rt.StatusLogs = logs
	return rt, nil
}

func (s *requestService) ListRentals(ctx context.Context, actor domain.Principal, status domain.RequestStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	userID := ""
	if !actor.IsAdmin() {
		userID = actor.ID
	}
	return s.store.Rentals().List(ctx, userID, status, page, pageSize)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ruddypp/Paramata-System/internal/async"
	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/logger"
	"github.com/ruddypp/Paramata-System/internal/metrics"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

// recordHandle is the per-kind capability surface the transition engine
// works against. The three request kinds share one state machine; only the
// completion side effects differ.
type recordHandle interface {
	kind() domain.RequestKind
	recordID() string
	itemSerial() string
	ownerID() string
	status() domain.RequestStatus
	setStatus(domain.RequestStatus)

	save(ctx context.Context, s repository.Store) error
	logStatus(ctx context.Context, s repository.Store, notes, actorID string) error

	// onApproved and onClosed run inside the transaction, after the
	// status change but before the log writes.
	onApproved(ctx context.Context, s repository.Store, now time.Time) error
	onClosed(ctx context.Context, s repository.Store, target domain.RequestStatus, now time.Time) error
}

type requestService struct {
	store     repository.Store
	clock     Clock
	executor  *async.Executor
	notifier  NotificationService
	reminders ReminderService
}

func NewRequestService(store repository.Store, clock Clock, executor *async.Executor, notifier NotificationService, reminders ReminderService) RequestService {
	return &requestService{
		store:     store,
		clock:     clock,
		executor:  executor,
		notifier:  notifier,
		reminders: reminders,
	}
}

// applyTransition validates and applies one status change. It must run
// inside a transaction holding the record's row lock: the handle's status
// is the re-read state that serializes concurrent callers.
func (s *requestService) applyTransition(ctx context.Context, tx repository.Store, h recordHandle, target domain.RequestStatus, actor domain.Principal, notes string, now time.Time) error {
	current := h.status()
	if !target.IsValid() || !current.CanTransitionTo(target) {
		return domain.NewIllegalTransition(h.kind(), current, target)
	}
	if err := authorizeTransition(actor, h, current, target); err != nil {
		return err
	}

	h.setStatus(target)

	switch target {
	case domain.RequestStatusApproved:
		if err := h.onApproved(ctx, tx, now); err != nil {
			return err
		}
	case domain.RequestStatusCompleted, domain.RequestStatusCancelled, domain.RequestStatusRejected:
		if err := h.onClosed(ctx, tx, target, now); err != nil {
			return err
		}
		// The record is no longer worth reminding about; without this its
		// active reminder would resurface in every sweep.
		if err := tx.Reminders().AcknowledgeActiveByOrigin(ctx, domain.ReminderTypeFor(h.kind()), h.recordID(), now); err != nil {
			return fmt.Errorf("retire reminder: %w", err)
		}
	}

	if err := h.save(ctx, tx); err != nil {
		return fmt.Errorf("update %s: %w", h.kind(), err)
	}

	itemStatus := domain.ItemStatusAvailable
	if target == domain.RequestStatusApproved {
		itemStatus = h.kind().BusyItemStatus()
	}
	if err := tx.Items().UpdateStatus(ctx, h.itemSerial(), itemStatus); err != nil {
		return fmt.Errorf("update item status: %w", err)
	}

	if notes == "" {
		notes = fmt.Sprintf("Status changed to %s", target)
	}
	if err := h.logStatus(ctx, tx, notes, actor.ID); err != nil {
		return fmt.Errorf("write status log: %w", err)
	}

	owner := h.ownerID()
	entry := &domain.ActivityLog{
		Type:           updateActivityType(h.kind()),
		Action:         fmt.Sprintf("%s %s: %s -> %s (item %s)", kindLabel(h.kind()), h.recordID(), current, target, h.itemSerial()),
		Details:        notes,
		UserID:         actor.ID,
		AffectedUserID: &owner,
		Target:         domain.RequestTarget(h.kind(), h.recordID()),
	}
	if err := tx.Activities().Create(ctx, entry); err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}
	return nil
}

// authorizeTransition: admins may perform any legal transition; owners
// keep the self-service paths (cancelling their own pending request, and
// closing out their own maintenance work).
func authorizeTransition(actor domain.Principal, h recordHandle, current, target domain.RequestStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.ID != h.ownerID() {
		return domain.ErrUnauthorized
	}
	if current == domain.RequestStatusPending && target == domain.RequestStatusCancelled {
		return nil
	}
	if h.kind() == domain.KindMaintenance &&
		current == domain.RequestStatusApproved && target == domain.RequestStatusCompleted {
		return nil
	}
	return domain.ErrUnauthorized
}

// afterTransition queues the post-commit side effects. Failures here are
// logged by the executor and never reach the caller; the transition has
// already committed.
func (s *requestService) afterTransition(kind domain.RequestKind, recordID string, target domain.RequestStatus) {
	metrics.TransitionsTotal.WithLabelValues(string(kind), string(target)).Inc()

	switch target {
	case domain.RequestStatusApproved:
		s.executor.Submit("instant-notification", func(ctx context.Context) error {
			return s.notifier.CreateInstantForReminder(ctx, kind, recordID)
		})
	case domain.RequestStatusCompleted:
		if kind == domain.KindCalibration {
			// Completion fixes ValidUntil; refresh the validity reminder.
			s.executor.Submit("schedule-reminder", func(ctx context.Context) error {
				_, err := s.reminders.ScheduleForRecord(ctx, kind, recordID)
				return err
			})
		}
	}
}

func (s *requestService) rejectMetric(kind domain.RequestKind, err error) {
	if err != nil {
		metrics.TransitionsRejected.WithLabelValues(string(kind)).Inc()
		logger.Debug("Transition rejected", "kind", kind, "error", err)
	}
}

// checkItemAvailable loads and row-locks the item, failing creation when
// it is committed elsewhere.
func checkItemAvailable(ctx context.Context, tx repository.Store, serial string) (*domain.Item, error) {
	item, err := tx.Items().GetBySerialForUpdate(ctx, serial)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusAvailable {
		return nil, fmt.Errorf("item %s is %s: %w", serial, item.Status, domain.ErrItemNotAvailable)
	}
	return item, nil
}

func createActivityType(kind domain.RequestKind) domain.ActivityType {
	switch kind {
	case domain.KindCalibration:
		return domain.ActivityCalibrationCreated
	case domain.KindMaintenance:
		return domain.ActivityMaintenanceCreated
	default:
		return domain.ActivityRentalCreated
	}
}

func updateActivityType(kind domain.RequestKind) domain.ActivityType {
	switch kind {
	case domain.KindCalibration:
		return domain.ActivityCalibrationUpdated
	case domain.KindMaintenance:
		return domain.ActivityMaintenanceUpdated
	default:
		return domain.ActivityRentalUpdated
	}
}

func kindLabel(kind domain.RequestKind) string {
	switch kind {
	case domain.KindCalibration:
		return "Calibration"
	case domain.KindMaintenance:
		return "Maintenance"
	default:
		return "Rental"
	}
}

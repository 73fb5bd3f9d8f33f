package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ruddypp/Paramata-System/internal/cache"
	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/email"
	"github.com/ruddypp/Paramata-System/internal/logger"
	"github.com/ruddypp/Paramata-System/internal/metrics"
	"github.com/ruddypp/Paramata-System/internal/push"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

// NotificationConfig tunes the dispatcher.
type NotificationConfig struct {
	SweepMinInterval time.Duration
	DedupCacheSize   int
	DedupCacheTTL    time.Duration
}

type notificationService struct {
	store     repository.Store
	clock     Clock
	reminders ReminderService
	cache     *cache.Cache
	emailer   email.Sender
	pusher    push.Sender

	// pushSeen keeps one push per notification id across overlapping
	// dispatch paths.
	pushSeen *expirable.LRU[string, struct{}]

	mu        sync.Mutex
	lastSweep time.Time
	cfg       NotificationConfig
}

func NewNotificationService(store repository.Store, clock Clock, reminders ReminderService, c *cache.Cache, emailer email.Sender, pusher push.Sender, cfg NotificationConfig) NotificationService {
	if cfg.SweepMinInterval <= 0 {
		cfg.SweepMinInterval = 10 * time.Minute
	}
	if cfg.DedupCacheSize <= 0 {
		cfg.DedupCacheSize = 2048
	}
	if cfg.DedupCacheTTL <= 0 {
		cfg.DedupCacheTTL = 6 * time.Hour
	}
	return &notificationService{
		store:     store,
		clock:     clock,
		reminders: reminders,
		cache:     c,
		emailer:   emailer,
		pusher:    pusher,
		pushSeen:  expirable.NewLRU[string, struct{}](cfg.DedupCacheSize, nil, cfg.DedupCacheTTL),
		cfg:       cfg,
	}
}

// CreateInstantForReminder is the synchronous approval path: make sure a
// reminder exists, then surface it immediately with sound.
func (s *notificationService) CreateInstantForReminder(ctx context.Context, kind domain.RequestKind, recordID string) error {
	rem, err := s.reminders.ScheduleForRecord(ctx, kind, recordID)
	if err != nil {
		return err
	}
	if rem == nil {
		return nil
	}

	n := &domain.Notification{
		UserID:          rem.UserID,
		Title:           rem.Title,
		Message:         rem.Message,
		ShouldPlaySound: true,
		ReminderID:      &rem.ID,
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// An unread notification already covers this reminder.
			return nil
		}
		return fmt.Errorf("create notification: %w", err)
	}
	if err := s.store.Reminders().MarkSent(ctx, rem.ID); err != nil {
		logger.Warn("Failed to mark reminder sent", "reminder_id", rem.ID, "error", err)
	}

	metrics.NotificationsCreated.WithLabelValues("instant").Inc()
	s.cache.InvalidateUnreadCount(ctx, n.UserID)
	s.sendPush(ctx, n)
	return nil
}

// Sweep promotes due reminders into notifications. Each reminder is
// processed independently; one bad row never aborts the rest.
func (s *notificationService) Sweep(ctx context.Context, force bool) (int, error) {
	s.mu.Lock()
	now := s.clock.Now()
	if !force && !s.lastSweep.IsZero() && now.Sub(s.lastSweep) < s.cfg.SweepMinInterval {
		s.mu.Unlock()
		logger.Debug("Sweep skipped, ran recently", "last", s.lastSweep)
		return 0, nil
	}
	s.lastSweep = now
	s.mu.Unlock()

	timer := prometheus.NewTimer(metrics.SweepDuration)
	defer timer.ObserveDuration()

	due, err := s.store.Reminders().ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	created := 0
	for i := range due {
		ok, err := s.dispatch(ctx, &due[i])
		if err != nil {
			logger.Error("Failed to dispatch reminder", "reminder_id", due[i].ID, "error", err)
			continue
		}
		if ok {
			created++
		}
	}
	logger.Info("Reminder sweep completed", "due", len(due), "created", created)
	return created, nil
}

// dispatch materializes at most one unread notification for the reminder
// and sends the reminder email once.
func (s *notificationService) dispatch(ctx context.Context, rem *domain.Reminder) (bool, error) {
	n := &domain.Notification{
		UserID:     rem.UserID,
		Title:      rem.Title,
		Message:    rem.Message,
		ReminderID: &rem.ID,
	}
	err := s.store.Notifications().Create(ctx, n)
	created := err == nil
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return false, err
	}

	if err := s.store.Reminders().MarkSent(ctx, rem.ID); err != nil {
		logger.Warn("Failed to mark reminder sent", "reminder_id", rem.ID, "error", err)
	}

	if created {
		metrics.NotificationsCreated.WithLabelValues("sweep").Inc()
		s.cache.InvalidateUnreadCount(ctx, rem.UserID)
		s.sendPush(ctx, n)
	}

	if !rem.EmailSent {
		s.sendEmail(ctx, rem)
	}
	return created, nil
}

func (s *notificationService) sendEmail(ctx context.Context, rem *domain.Reminder) {
	user, err := s.store.Users().GetByID(ctx, rem.UserID)
	if err != nil {
		logger.Warn("Reminder owner not found for email", "reminder_id", rem.ID, "error", err)
		return
	}
	html := fmt.Sprintf("<p>%s</p><p>Due date: %s</p>", rem.Message, rem.DueDate.Format("2006-01-02"))
	if err := s.emailer.Send(ctx, user.Email, user.Name, rem.Title, rem.Message, html); err != nil {
		logger.Error("Failed to send reminder email", "reminder_id", rem.ID, "error", err)
		return
	}
	if err := s.store.Reminders().MarkEmailSent(ctx, rem.ID, s.clock.Now()); err != nil {
		logger.Warn("Failed to record email sent", "reminder_id", rem.ID, "error", err)
	}
}

func (s *notificationService) sendPush(ctx context.Context, n *domain.Notification) {
	if _, seen := s.pushSeen.Get(n.ID); seen {
		return
	}
	s.pushSeen.Add(n.ID, struct{}{})
	if err := s.pusher.Send(ctx, n.UserID, n.Title, n.Message); err != nil {
		logger.Error("Failed to send push", "notification_id", n.ID, "error", err)
	}
}

// ListOverdue reports unacknowledged reminders past their due date. Read
// only, used for UI badges.
func (s *notificationService) ListOverdue(ctx context.Context, userID string) ([]domain.Reminder, error) {
	return s.store.Reminders().ListOverdueByUser(ctx, userID, s.clock.Now())
}

func (s *notificationService) List(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.store.Notifications().List(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int32, error) {
	if count, ok := s.cache.GetUnreadCount(ctx, userID); ok {
		return count, nil
	}
	count, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cache.SetUnreadCount(ctx, userID, count)
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor domain.Principal, notificationID string) error {
	n, err := s.store.Notifications().GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != actor.ID {
		// Uniform rejection, existence is not leaked to other users.
		return domain.ErrUnauthorized
	}
	if err := s.store.Notifications().MarkAsRead(ctx, notificationID, actor.ID, s.clock.Now()); err != nil {
		return err
	}
	s.cache.InvalidateUnreadCount(ctx, actor.ID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.store.Notifications().MarkAllRead(ctx, userID, s.clock.Now()); err != nil {
		return err
	}
	s.cache.InvalidateUnreadCount(ctx, userID)
	return nil
}

func (s *notificationService) DeleteAllRead(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.store.Notifications().DeleteRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cache.InvalidateUnreadCount(ctx, userID)
	return deleted, nil
}

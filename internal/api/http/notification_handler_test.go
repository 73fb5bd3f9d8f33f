package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/security"
)

// stubNotificationService records the calls the handler makes and returns
// canned data.
type stubNotificationService struct {
	listedFor   string
	sweepForced bool
	markReadID  string
	markReadErr error
}

func (s *stubNotificationService) CreateInstantForReminder(context.Context, domain.RequestKind, string) error {
	return nil
}

func (s *stubNotificationService) Sweep(_ context.Context, force bool) (int, error) {
	s.sweepForced = force
	return 3, nil
}

func (s *stubNotificationService) ListOverdue(context.Context, string) ([]domain.Reminder, error) {
	return []domain.Reminder{{ID: "rem-1", Type: domain.ReminderTypeRental}}, nil
}

func (s *stubNotificationService) List(_ context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	s.listedFor = userID
	return []domain.Notification{
		{ID: "n-1", UserID: userID, Title: "Rental due", CreatedAt: time.Now()},
	}, 1, nil
}

func (s *stubNotificationService) UnreadCount(context.Context, string) (int32, error) {
	return 2, nil
}

func (s *stubNotificationService) MarkRead(_ context.Context, _ domain.Principal, id string) error {
	s.markReadID = id
	return s.markReadErr
}

func (s *stubNotificationService) MarkAllRead(context.Context, string) error { return nil }

func (s *stubNotificationService) DeleteAllRead(context.Context, string) (int64, error) {
	return 4, nil
}

type stubReminderService struct {
	ackID  string
	ackErr error
}

func (s *stubReminderService) ScheduleForRecord(context.Context, domain.RequestKind, string) (*domain.Reminder, error) {
	return nil, nil
}

func (s *stubReminderService) ScheduleForInventory(context.Context, string) (*domain.Reminder, error) {
	return nil, nil
}

func (s *stubReminderService) Acknowledge(_ context.Context, _ domain.Principal, id string) error {
	s.ackID = id
	return s.ackErr
}

type notificationTestEnv struct {
	router        http.Handler
	notifications *stubNotificationService
	reminders     *stubReminderService
	tm            security.TokenManager
}

func newNotificationTestEnv(t *testing.T) *notificationTestEnv {
	t.Helper()
	env := &notificationTestEnv{
		notifications: &stubNotificationService{},
		reminders:     &stubReminderService{},
		tm:            security.NewTokenManager(middlewareTestSecret, 60),
	}
	env.router = NewRouter(RouterDeps{
		TokenManager:  env.tm,
		Notifications: env.notifications,
		Reminders:     env.reminders,
	})
	return env
}

func (env *notificationTestEnv) do(t *testing.T, method, path string, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, env.tm, user))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

var (
	regularUser = &domain.User{ID: "user-1", Role: domain.RoleUser}
	adminUser   = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
)

func TestNotificationRoutes(t *testing.T) {
	t.Run("ListScopedToCaller", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/notifications?page=1&page_size=10", regularUser)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", env.notifications.listedFor)

		var body pagedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int32(1), body.Total)
		assert.Equal(t, int32(10), body.PageSize)
	})

	t.Run("UnreadCount", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/notifications/unread-count", regularUser)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]int32
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int32(2), body["unread_count"])
	})

	t.Run("MarkReadReturnsNoContent", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodPatch, "/api/notifications/n-7/read", regularUser)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "n-7", env.notifications.markReadID)
	})

	t.Run("MarkReadOnForeignNotification", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		env.notifications.markReadErr = domain.ErrUnauthorized
		rec := env.do(t, http.MethodPatch, "/api/notifications/n-7/read", regularUser)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("DeleteAllRead", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodDelete, "/api/notifications/read", regularUser)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(4), body["deleted"])
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestReminderRoutes(t *testing.T) {
	t.Run("Acknowledge", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/reminders/rem-9/acknowledge", regularUser)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "rem-9", env.reminders.ackID)
	})

	t.Run("AcknowledgeForeignReminder", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		env.reminders.ackErr = domain.ErrUnauthorized
		rec := env.do(t, http.MethodPost, "/api/reminders/rem-9/acknowledge", regularUser)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("SweepRequiresAdmin", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/reminders/sweep", regularUser)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("SweepForced", func(t *testing.T) {
		env := newNotificationTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/reminders/sweep?force=true", adminUser)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.notifications.sweepForced)

		var body map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 3, body["notifications_created"])
	})
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ruddypp/Paramata-System/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
	reminders     service.ReminderService
}

func NewNotificationHandler(notifications service.NotificationService, reminders service.ReminderService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, reminders: reminders}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	page, pageSize := parsePaging(r)

	items, total, err := h.notifications.List(r.Context(), actor.ID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	count, err := h.notifications.UnreadCount(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"unread_count": count})
}

func (h *NotificationHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	reminders, err := h.notifications.ListOverdue(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overdue": reminders})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	if err := h.notifications.MarkRead(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	if err := h.notifications.MarkAllRead(r.Context(), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteAllRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	deleted, err := h.notifications.DeleteAllRead(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (h *NotificationHandler) AcknowledgeReminder(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	if err := h.reminders.Acknowledge(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunSweep triggers the reminder sweep on demand. Admin only; ?force=true
// bypasses the minimum-interval guard.
func (h *NotificationHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	created, err := h.notifications.Sweep(r.Context(), force)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"notifications_created": created})
}

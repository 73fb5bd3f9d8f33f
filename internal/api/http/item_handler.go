package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/service"
)

type ItemHandler struct {
	items     service.ItemService
	schedules service.ScheduleService
}

func NewItemHandler(items service.ItemService, schedules service.ScheduleService) *ItemHandler {
	return &ItemHandler{items: items, schedules: schedules}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var item domain.Item
	if !decodeBody(w, r, &item) {
		return
	}
	if item.SerialNumber == "" || item.Name == "" {
		writeBadRequest(w, "serial_number and name are required")
		return
	}

	if err := h.items.CreateItem(r.Context(), actor, &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.GetItem(r.Context(), mux.Vars(r)["serial"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var status domain.ItemStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = domain.ItemStatus(raw)
		if !status.IsValid() {
			writeBadRequest(w, "invalid status filter")
			return
		}
	}
	page, pageSize := parsePaging(r)

	items, total, err := h.items.ListItems(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *ItemHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.items.GetItemHistory(r.Context(), mux.Vars(r)["serial"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (h *ItemHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var sched domain.InventorySchedule
	if !decodeBody(w, r, &sched) {
		return
	}
	if sched.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if !sched.Frequency.IsValid() {
		writeBadRequest(w, "invalid frequency")
		return
	}
	if sched.NextDate.IsZero() {
		writeBadRequest(w, "next_date is required")
		return
	}

	if err := h.schedules.CreateSchedule(r.Context(), actor, &sched); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (h *ItemHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	schedules, total, err := h.schedules.ListSchedules(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: schedules, Total: total, Page: page, PageSize: pageSize})
}

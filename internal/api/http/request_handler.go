package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/service"
)

// RequestHandler exposes the rental, calibration and maintenance lifecycle.
type RequestHandler struct {
	requests service.RequestService
}

func NewRequestHandler(requests service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

func parsePaging(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

func parseStatusFilter(w http.ResponseWriter, r *http.Request) (domain.RequestStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", true
	}
	status := domain.RequestStatus(raw)
	if !status.IsValid() {
		writeBadRequest(w, "invalid status filter")
		return "", false
	}
	return status, true
}

type createRentalRequest struct {
	ItemSerial string     `json:"item_serial"`
	UserID     string     `json:"user_id"`
	CustomerID *string    `json:"customer_id"`
	PONumber   string     `json:"po_number"`
	DONumber   string     `json:"do_number"`
	RenterName string     `json:"renter_name"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

func (h *RequestHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var req createRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ItemSerial == "" {
		writeBadRequest(w, "item_serial is required")
		return
	}
	if req.StartDate.IsZero() {
		writeBadRequest(w, "start_date is required")
		return
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		writeBadRequest(w, "end_date must be after start_date")
		return
	}

	rental, err := h.requests.CreateRental(r.Context(), actor, service.CreateRentalInput{
		ItemSerial: req.ItemSerial,
		UserID:     req.UserID,
		CustomerID: req.CustomerID,
		PONumber:   req.PONumber,
		DONumber:   req.DONumber,
		RenterName: req.RenterName,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

type createCalibrationRequest struct {
	ItemSerial        string     `json:"item_serial"`
	UserID            string     `json:"user_id"`
	CustomerID        *string    `json:"customer_id"`
	CalibrationDate   time.Time  `json:"calibration_date"`
	ValidUntil        *time.Time `json:"valid_until"`
	CertificateNumber string     `json:"certificate_number"`
}

func (h *RequestHandler) CreateCalibration(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var req createCalibrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ItemSerial == "" {
		writeBadRequest(w, "item_serial is required")
		return
	}
	if req.CalibrationDate.IsZero() {
		writeBadRequest(w, "calibration_date is required")
		return
	}

	cal, err := h.requests.CreateCalibration(r.Context(), actor, service.CreateCalibrationInput{
		ItemSerial:        req.ItemSerial,
		UserID:            req.UserID,
		CustomerID:        req.CustomerID,
		CalibrationDate:   req.CalibrationDate,
		ValidUntil:        req.ValidUntil,
		CertificateNumber: req.CertificateNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cal)
}

type createMaintenanceRequest struct {
	ItemSerial string    `json:"item_serial"`
	UserID     string    `json:"user_id"`
	StartDate  time.Time `json:"start_date"`
}

func (h *RequestHandler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var req createMaintenanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ItemSerial == "" {
		writeBadRequest(w, "item_serial is required")
		return
	}
	if req.StartDate.IsZero() {
		req.StartDate = time.Now().UTC()
	}

	m, err := h.requests.CreateMaintenance(r.Context(), actor, service.CreateMaintenanceInput{
		ItemSerial: req.ItemSerial,
		UserID:     req.UserID,
		StartDate:  req.StartDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *RequestHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	rental, err := h.requests.GetRental(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RequestHandler) GetCalibration(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	cal, err := h.requests.GetCalibration(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (h *RequestHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	m, err := h.requests.GetMaintenance(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *RequestHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}
	page, pageSize := parsePaging(r)

	rentals, total, err := h.requests.ListRentals(r.Context(), actor, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: rentals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RequestHandler) ListCalibrations(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}
	page, pageSize := parsePaging(r)

	cals, total, err := h.requests.ListCalibrations(r.Context(), actor, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: cals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RequestHandler) ListMaintenances(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())
	status, ok := parseStatusFilter(w, r)
	if !ok {
		return
	}
	page, pageSize := parsePaging(r)

	records, total, err := h.requests.ListMaintenances(r.Context(), actor, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: records, Total: total, Page: page, PageSize: pageSize})
}

type transitionRequest struct {
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	ReturnCondition string `json:"return_condition"`
}

func (req *transitionRequest) target(w http.ResponseWriter) (domain.RequestStatus, bool) {
	status := domain.RequestStatus(req.Status)
	if !status.IsValid() {
		writeBadRequest(w, "invalid target status")
		return "", false
	}
	return status, true
}

func (h *RequestHandler) TransitionRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var req transitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, ok := req.target(w)
	if !ok {
		return
	}

	rental, err := h.requests.TransitionRental(r.Context(), actor, mux.Vars(r)["id"], target, req.Notes, req.ReturnCondition)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RequestHandler) TransitionCalibration(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var req transitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, ok := req.target(w)
	if !ok {
		return
	}

	cal, err := h.requests.TransitionCalibration(r.Context(), actor, mux.Vars(r)["id"], target, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (h *RequestHandler) TransitionMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var req transitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, ok := req.target(w)
	if !ok {
		return
	}

	m, err := h.requests.TransitionMaintenance(r.Context(), actor, mux.Vars(r)["id"], target, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *RequestHandler) SaveCalibrationCertificate(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var cert domain.CalibrationCertificate
	if !decodeBody(w, r, &cert) {
		return
	}

	if err := h.requests.SaveCalibrationCertificate(r.Context(), actor, mux.Vars(r)["id"], &cert); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (h *RequestHandler) SubmitServiceReport(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var report domain.ServiceReport
	if !decodeBody(w, r, &report) {
		return
	}

	if err := h.requests.SubmitServiceReport(r.Context(), actor, mux.Vars(r)["id"], &report); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *RequestHandler) SubmitTechnicalReport(w http.ResponseWriter, r *http.Request) {
	actor, _ := PrincipalFromContext(r.Context())

	var report domain.TechnicalReport
	if !decodeBody(w, r, &report) {
		return
	}

	if err := h.requests.SubmitTechnicalReport(r.Context(), actor, mux.Vars(r)["id"], &report); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

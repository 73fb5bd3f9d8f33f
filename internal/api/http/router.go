// Package http wires the REST surface: routing, authentication middleware
// and the JSON handlers over the service layer.
package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruddypp/Paramata-System/internal/security"
	"github.com/ruddypp/Paramata-System/internal/service"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	DB            *sql.DB
	TokenManager  security.TokenManager
	Auth          service.AuthService
	Requests      service.RequestService
	Notifications service.NotificationService
	Reminders     service.ReminderService
	Items         service.ItemService
	Schedules     service.ScheduleService
}

// NewRouter builds the full route table. Everything under /api except
// /api/auth/login requires a valid Bearer token.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Auth)
	requestHandler := NewRequestHandler(deps.Requests)
	notificationHandler := NewNotificationHandler(deps.Notifications, deps.Reminders)
	itemHandler := NewItemHandler(deps.Items, deps.Schedules)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware, MetricsMiddleware)

	r.HandleFunc("/healthz", HealthHandler(deps.DB)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(deps.TokenManager))

	// Rentals
	api.HandleFunc("/rentals", requestHandler.CreateRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals", requestHandler.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", requestHandler.GetRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/status", requestHandler.TransitionRental).Methods(http.MethodPost)

	// Calibrations
	api.HandleFunc("/calibrations", requestHandler.CreateCalibration).Methods(http.MethodPost)
	api.HandleFunc("/calibrations", requestHandler.ListCalibrations).Methods(http.MethodGet)
	api.HandleFunc("/calibrations/{id}", requestHandler.GetCalibration).Methods(http.MethodGet)
	api.HandleFunc("/calibrations/{id}/status", requestHandler.TransitionCalibration).Methods(http.MethodPost)
	api.HandleFunc("/calibrations/{id}/certificate", RequireAdmin(requestHandler.SaveCalibrationCertificate)).Methods(http.MethodPost)

	// Maintenance
	api.HandleFunc("/maintenance", requestHandler.CreateMaintenance).Methods(http.MethodPost)
	api.HandleFunc("/maintenance", requestHandler.ListMaintenances).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id}", requestHandler.GetMaintenance).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id}/status", requestHandler.TransitionMaintenance).Methods(http.MethodPost)
	api.HandleFunc("/maintenance/{id}/service-report", requestHandler.SubmitServiceReport).Methods(http.MethodPost)
	api.HandleFunc("/maintenance/{id}/technical-report", requestHandler.SubmitTechnicalReport).Methods(http.MethodPost)

	// Notifications
	api.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", notificationHandler.UnreadCount).Methods(http.MethodGet)
	api.HandleFunc("/notifications/overdue", notificationHandler.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/read", notificationHandler.DeleteAllRead).Methods(http.MethodDelete)
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods(http.MethodPatch)

	// Reminders
	api.HandleFunc("/reminders/{id}/acknowledge", notificationHandler.AcknowledgeReminder).Methods(http.MethodPost)
	api.HandleFunc("/reminders/sweep", RequireAdmin(notificationHandler.RunSweep)).Methods(http.MethodPost)

	// Items and inventory schedules
	api.HandleFunc("/items", RequireAdmin(itemHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/items", itemHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/items/{serial}", itemHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/items/{serial}/history", itemHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/inventory-schedules", RequireAdmin(itemHandler.CreateSchedule)).Methods(http.MethodPost)
	api.HandleFunc("/inventory-schedules", itemHandler.ListSchedules).Methods(http.MethodGet)

	return r
}

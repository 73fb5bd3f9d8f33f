// Package metrics declares the Prometheus collectors shared by the API
// and the background jobs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts applied status transitions by kind and
	// resulting status. Refused transitions go to TransitionsRejected so
	// the status label stays a pure RequestStatus enum.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paramata_transitions_total",
			Help: "Applied request record status transitions by kind and target status",
		},
		[]string{"kind", "status"},
	)

	TransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paramata_transitions_rejected_total",
			Help: "Refused request record status transitions by kind",
		},
		[]string{"kind"},
	)

	RemindersScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paramata_reminders_scheduled_total",
			Help: "Reminders created or refreshed by type",
		},
		[]string{"type"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paramata_notifications_created_total",
			Help: "Notifications materialized by path (instant or sweep)",
		},
		[]string{"path"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paramata_reminder_sweep_duration_seconds",
			Help:    "Duration of reminder sweep runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paramata_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paramata_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

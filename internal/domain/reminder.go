package domain

import "time"

type ReminderType string

const (
	ReminderTypeRental      ReminderType = "RENTAL"
	ReminderTypeCalibration ReminderType = "CALIBRATION"
	ReminderTypeMaintenance ReminderType = "MAINTENANCE"
	ReminderTypeSchedule    ReminderType = "SCHEDULE"
)

type ReminderStatus string

const (
	ReminderStatusPending      ReminderStatus = "PENDING"
	ReminderStatusSent         ReminderStatus = "SENT"
	ReminderStatusAcknowledged ReminderStatus = "ACKNOWLEDGED"
)

// Reminder tracks an upcoming due date for exactly one originating record.
// At most one non-acknowledged reminder exists per (type, origin); the
// store's upsert keeps that invariant.
type Reminder struct {
	ID             string         `json:"id"`
	Type           ReminderType   `json:"type"`
	Status         ReminderStatus `json:"status"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	DueDate        time.Time      `json:"due_date"`
	ReminderDate   time.Time      `json:"reminder_date"`
	ItemSerial     *string        `json:"item_serial,omitempty"`
	RentalID       *string        `json:"rental_id,omitempty"`
	CalibrationID  *string        `json:"calibration_id,omitempty"`
	MaintenanceID  *string        `json:"maintenance_id,omitempty"`
	ScheduleID     *string        `json:"schedule_id,omitempty"`
	UserID         string         `json:"user_id"`
	EmailSent      bool           `json:"email_sent"`
	EmailSentAt    *time.Time     `json:"email_sent_at,omitempty"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// OriginID returns the identifier of the record this reminder tracks.
func (r *Reminder) OriginID() string {
	switch r.Type {
	case ReminderTypeRental:
		if r.RentalID != nil {
			return *r.RentalID
		}
	case ReminderTypeCalibration:
		if r.CalibrationID != nil {
			return *r.CalibrationID
		}
	case ReminderTypeMaintenance:
		if r.MaintenanceID != nil {
			return *r.MaintenanceID
		}
	case ReminderTypeSchedule:
		if r.ScheduleID != nil {
			return *r.ScheduleID
		}
	}
	return ""
}

func ReminderTypeFor(kind RequestKind) ReminderType {
	switch kind {
	case KindCalibration:
		return ReminderTypeCalibration
	case KindMaintenance:
		return ReminderTypeMaintenance
	default:
		return ReminderTypeRental
	}
}

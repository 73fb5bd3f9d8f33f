package domain

import "time"

type ActivityType string

const (
	ActivityItemCreated        ActivityType = "ITEM_CREATED"
	ActivityItemUpdated        ActivityType = "ITEM_UPDATED"
	ActivityRentalCreated      ActivityType = "RENTAL_CREATED"
	ActivityRentalUpdated      ActivityType = "RENTAL_UPDATED"
	ActivityCalibrationCreated ActivityType = "CALIBRATION_CREATED"
	ActivityCalibrationUpdated ActivityType = "CALIBRATION_UPDATED"
	ActivityMaintenanceCreated ActivityType = "MAINTENANCE_CREATED"
	ActivityMaintenanceUpdated ActivityType = "MAINTENANCE_UPDATED"
	ActivityScheduleCreated    ActivityType = "SCHEDULE_CREATED"
	ActivityScheduleUpdated    ActivityType = "SCHEDULE_UPDATED"
	ActivityReminderCreated    ActivityType = "REMINDER_CREATED"
	ActivityUserCreated        ActivityType = "USER_CREATED"
)

type ActivityTargetKind string

const (
	TargetItem        ActivityTargetKind = "ITEM"
	TargetRental      ActivityTargetKind = "RENTAL"
	TargetCalibration ActivityTargetKind = "CALIBRATION"
	TargetMaintenance ActivityTargetKind = "MAINTENANCE"
	TargetUser        ActivityTargetKind = "USER"
	TargetCustomer    ActivityTargetKind = "CUSTOMER"
	TargetSchedule    ActivityTargetKind = "SCHEDULE"
)

// ActivityTarget names the single entity an activity refers to. The zero
// value means the activity has no target.
type ActivityTarget struct {
	Kind ActivityTargetKind `json:"kind,omitempty"`
	Ref  string             `json:"ref,omitempty"`
}

func (t ActivityTarget) IsZero() bool {
	return t.Kind == "" && t.Ref == ""
}

func ItemTarget(serial string) ActivityTarget {
	return ActivityTarget{Kind: TargetItem, Ref: serial}
}

func RentalTarget(id string) ActivityTarget {
	return ActivityTarget{Kind: TargetRental, Ref: id}
}

func CalibrationTarget(id string) ActivityTarget {
	return ActivityTarget{Kind: TargetCalibration, Ref: id}
}

func MaintenanceTarget(id string) ActivityTarget {
	return ActivityTarget{Kind: TargetMaintenance, Ref: id}
}

func UserTarget(id string) ActivityTarget {
	return ActivityTarget{Kind: TargetUser, Ref: id}
}

func ScheduleTarget(id string) ActivityTarget {
	return ActivityTarget{Kind: TargetSchedule, Ref: id}
}

// RequestTarget maps a request kind to the matching activity target.
func RequestTarget(kind RequestKind, id string) ActivityTarget {
	switch kind {
	case KindCalibration:
		return CalibrationTarget(id)
	case KindMaintenance:
		return MaintenanceTarget(id)
	default:
		return RentalTarget(id)
	}
}

type ActivityLog struct {
	ID             string         `json:"id"`
	Type           ActivityType   `json:"type"`
	Action         string         `json:"action"`
	Details        string         `json:"details,omitempty"`
	UserID         string         `json:"user_id"`
	AffectedUserID *string        `json:"affected_user_id,omitempty"`
	Target         ActivityTarget `json:"target"`
	CreatedAt      time.Time      `json:"created_at"`
}

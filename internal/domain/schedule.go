package domain

import "time"

type ScheduleFrequency string

const (
	FrequencyMonthly    ScheduleFrequency = "MONTHLY"
	FrequencyQuarterly  ScheduleFrequency = "QUARTERLY"
	FrequencySemiAnnual ScheduleFrequency = "SEMI_ANNUAL"
	FrequencyAnnual     ScheduleFrequency = "ANNUAL"
)

func (f ScheduleFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual:
		return true
	}
	return false
}

// Months returns the interval length of the frequency.
func (f ScheduleFrequency) Months() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencySemiAnnual:
		return 6
	case FrequencyAnnual:
		return 12
	default:
		return 1
	}
}

// InventorySchedule is a recurring stock-check appointment. NextDate rolls
// forward by the frequency once the date has passed.
type InventorySchedule struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Frequency   ScheduleFrequency `json:"frequency"`
	NextDate    time.Time         `json:"next_date"`
	Description string            `json:"description,omitempty"`
	UserID      string            `json:"user_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Advance returns the first occurrence after the given time, stepping from
// NextDate by whole intervals.
func (s *InventorySchedule) Advance(after time.Time) time.Time {
	next := s.NextDate
	for !next.After(after) {
		next = next.AddDate(0, s.Frequency.Months(), 0)
	}
	return next
}

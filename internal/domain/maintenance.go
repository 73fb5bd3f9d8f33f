package domain

import "time"

type Maintenance struct {
	ID         string        `json:"id"`
	ItemSerial string        `json:"item_serial"`
	UserID     string        `json:"user_id"`
	Status     RequestStatus `json:"status"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    *time.Time    `json:"end_date,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	Item            *Item                  `json:"item,omitempty"` // Populated when fetching maintenance details
	ServiceReport   *ServiceReport         `json:"service_report,omitempty"`
	TechnicalReport *TechnicalReport       `json:"technical_report,omitempty"`
	StatusLogs      []MaintenanceStatusLog `json:"status_logs,omitempty"`
}

type MaintenanceStatusLog struct {
	ID            string        `json:"id"`
	MaintenanceID string        `json:"maintenance_id"`
	Status        RequestStatus `json:"status"`
	Notes         string        `json:"notes"`
	UserID        string        `json:"user_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ServiceReport is the customer service report filled in while a
// maintenance engagement is open.
type ServiceReport struct {
	ID              string    `json:"id"`
	MaintenanceID   string    `json:"maintenance_id"`
	ReportNumber    string    `json:"report_number"`
	ReasonForReturn string    `json:"reason_for_return"`
	Findings        string    `json:"findings"`
	ActionTaken     string    `json:"action_taken"`
	CreatedAt       time.Time `json:"created_at"`
}

// TechnicalReport is the engineer's report submitted when the work is done.
type TechnicalReport struct {
	ID             string    `json:"id"`
	MaintenanceID  string    `json:"maintenance_id"`
	ReportNumber   string    `json:"report_number"`
	Comments       string    `json:"comments"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

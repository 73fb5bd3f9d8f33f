package domain

import "time"

type ItemStatus string

const (
	ItemStatusAvailable     ItemStatus = "AVAILABLE"
	ItemStatusInCalibration ItemStatus = "IN_CALIBRATION"
	ItemStatusRented        ItemStatus = "RENTED"
	ItemStatusInMaintenance ItemStatus = "IN_MAINTENANCE"
)

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusInCalibration, ItemStatusRented, ItemStatusInMaintenance:
		return true
	}
	return false
}

// Item is a tracked instrument, keyed by its serial number. Status is
// mutated only by the request lifecycle, never directly by callers.
type Item struct {
	SerialNumber   string     `json:"serial_number"`
	Name           string     `json:"name"`
	PartNumber     string     `json:"part_number"`
	Sensor         *string    `json:"sensor,omitempty"`
	Description    *string    `json:"description,omitempty"`
	CustomerID     *string    `json:"customer_id,omitempty"`
	Customer       *Customer  `json:"customer,omitempty"` // Populated when fetching item details
	Status         ItemStatus `json:"status"`
	LastVerifiedAt *time.Time `json:"last_verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ItemHistoryAction string

const (
	ItemHistoryActionRented ItemHistoryAction = "RENTED"
)

// ItemHistory records one usage engagement of an item. EndDate stays nil
// while the engagement is open.
type ItemHistory struct {
	ID         string            `json:"id"`
	ItemSerial string            `json:"item_serial"`
	Action     ItemHistoryAction `json:"action"`
	RentalID   *string           `json:"rental_id,omitempty"`
	StartDate  time.Time         `json:"start_date"`
	EndDate    *time.Time        `json:"end_date,omitempty"`
	Details    string            `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

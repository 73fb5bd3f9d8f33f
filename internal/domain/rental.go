package domain

import "time"

type Rental struct {
	ID              string        `json:"id"`
	ItemSerial      string        `json:"item_serial"`
	UserID          string        `json:"user_id"`
	CustomerID      *string       `json:"customer_id,omitempty"`
	PONumber        string        `json:"po_number"`
	DONumber        string        `json:"do_number"`
	RenterName      string        `json:"renter_name"`
	Status          RequestStatus `json:"status"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
	ReturnDate      *time.Time    `json:"return_date,omitempty"`
	ReturnCondition string        `json:"return_condition"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Item       *Item             `json:"item,omitempty"` // Populated when fetching rental details
	StatusLogs []RentalStatusLog `json:"status_logs,omitempty"`
}

type RentalStatusLog struct {
	ID        string        `json:"id"`
	RentalID  string        `json:"rental_id"`
	Status    RequestStatus `json:"status"`
	Notes     string        `json:"notes"`
	UserID    string        `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
}

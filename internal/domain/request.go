package domain

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// requestTransitions is the complete transition table shared by rentals,
// calibrations and maintenance records. Statuses absent as keys are terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusApproved: {RequestStatusCompleted, RequestStatusCancelled},
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s.IsValid() && len(requestTransitions[s]) == 0
}

func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type RequestKind string

const (
	KindRental      RequestKind = "RENTAL"
	KindCalibration RequestKind = "CALIBRATION"
	KindMaintenance RequestKind = "MAINTENANCE"
)

// BusyItemStatus returns the item status an approved request of this kind
// imposes on its item.
func (k RequestKind) BusyItemStatus() ItemStatus {
	switch k {
	case KindCalibration:
		return ItemStatusInCalibration
	case KindMaintenance:
		return ItemStatusInMaintenance
	default:
		return ItemStatusRented
	}
}

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Principal is the authenticated identity performing an operation.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

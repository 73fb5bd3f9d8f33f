package domain

import "time"

type Calibration struct {
	ID                string        `json:"id"`
	ItemSerial        string        `json:"item_serial"`
	UserID            string        `json:"user_id"`
	CustomerID        *string       `json:"customer_id,omitempty"`
	Status            RequestStatus `json:"status"`
	CalibrationDate   time.Time     `json:"calibration_date"`
	ValidUntil        *time.Time    `json:"valid_until,omitempty"`
	CertificateNumber string        `json:"certificate_number"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	Item        *Item                   `json:"item,omitempty"` // Populated when fetching calibration details
	Certificate *CalibrationCertificate `json:"certificate,omitempty"`
	StatusLogs  []CalibrationStatusLog  `json:"status_logs,omitempty"`
}

type CalibrationStatusLog struct {
	ID            string        `json:"id"`
	CalibrationID string        `json:"calibration_id"`
	Status        RequestStatus `json:"status"`
	Notes         string        `json:"notes"`
	UserID        string        `json:"user_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CalibrationCertificate holds the finalized certificate data produced on
// completion. Rendering it to a document happens outside this system.
type CalibrationCertificate struct {
	ID             string    `json:"id"`
	CalibrationID  string    `json:"calibration_id"`
	Manufacturer   string    `json:"manufacturer"`
	InstrumentName string    `json:"instrument_name"`
	ModelNumber    string    `json:"model_number"`
	Configuration  string    `json:"configuration"`
	ApprovedBy     string    `json:"approved_by"`
	CreatedAt      time.Time `json:"created_at"`

	GasEntries []GasCalibrationEntry `json:"gas_entries,omitempty"`
}

type GasTestResult string

const (
	GasTestResultPass GasTestResult = "PASS"
	GasTestResultFail GasTestResult = "FAIL"
)

type GasCalibrationEntry struct {
	ID               string        `json:"id"`
	CertificateID    string        `json:"certificate_id"`
	GasType          string        `json:"gas_type"`
	GasConcentration string        `json:"gas_concentration"`
	GasBalance       string        `json:"gas_balance"`
	GasBatchNumber   string        `json:"gas_batch_number"`
	TestSensor       string        `json:"test_sensor"`
	TestSpan         string        `json:"test_span"`
	TestResult       GasTestResult `json:"test_result"`
	CreatedAt        time.Time     `json:"created_at"`
}

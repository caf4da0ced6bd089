package models

import "time"

// Sheet lifecycle states. A driver has at most one ACTIVE sheet.
const (
	SheetActive    = "ACTIVE"
	SheetCompleted = "COMPLETED"
)

// LogSheet is one operating period for a driver: created when a trip starts
// or a new duty day begins, completed on trip end or manual closure.
// The change sequence is the source of truth; driven miles and per-status
// hours are derived from it, never stored.
type LogSheet struct {
	ID              string             `json:"id"`
	DriverID        int                `json:"driver_id"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         *time.Time         `json:"end_time,omitempty"`
	StartLocation   string             `json:"start_location"`
	EndLocation     string             `json:"end_location,omitempty"`
	StartCycleHours float64            `json:"start_cycle_hours"`
	EndCycleHours   *float64           `json:"end_cycle_hours,omitempty"`
	Status          string             `json:"status"` // ACTIVE | COMPLETED
	Changes         []DutyStatusChange `json:"changes,omitempty"`
	Remarks         []Remark           `json:"remarks,omitempty"`
}

// Remark is a location-tagged note on a sheet. Time is an "HH:MM"-prefixed
// local time string as supplied by the client; unparseable remarks are
// dropped when building the daily grid.
type Remark struct {
	Time     string `json:"time"`
	Location string `json:"location"`
}

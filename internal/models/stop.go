package models

import "time"

// Stop types.
const (
	StopPickup  = "PICKUP"
	StopDropoff = "DROPOFF"
	StopRest    = "REST"
	StopFuel    = "FUEL"
)

// Stop execution states.
const (
	StopPending   = "PENDING"
	StopCompleted = "COMPLETED"
	StopSkipped   = "SKIPPED"
)

// Stop is one planned halt on a trip. Created by the planner; arrival,
// departure and status are mutated during execution.
type Stop struct {
	ID                   string     `json:"id"`
	SheetID              string     `json:"sheet_id"`
	Sequence             int        `json:"sequence"`
	Type                 string     `json:"type"` // PICKUP | DROPOFF | REST | FUEL
	Label                string     `json:"label,omitempty"`
	Location             LatLon     `json:"location"`
	ArrivalTime          *time.Time `json:"arrival_time,omitempty"`
	DepartureTime        *time.Time `json:"departure_time,omitempty"`
	DurationMinutes      int        `json:"duration_minutes"`
	CycleHoursAtStop     float64    `json:"cycle_hours_at_stop"`
	DistanceFromLastStop float64    `json:"distance_from_last_stop"`
	Status               string     `json:"status"` // PENDING | COMPLETED | SKIPPED
}

// RouteLeg is one segment of the route as returned by the external routing
// service. Geometry is ignored by this engine; only distance and duration
// matter for compliance.
type RouteLeg struct {
	EndLocation   LatLon  `json:"end_location"`
	Label         string  `json:"label,omitempty"`
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

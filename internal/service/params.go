package service

import (
	"time"

	"trip_logger/internal/models"
)

// ChangeParams is one requested duty-status transition.
type ChangeParams struct {
	Timestamp time.Time
	Status    models.DutyStatus
	Location  *models.LatLon
}

// ChangeFilter narrows history queries by time range (inclusive; zero means
// no bound).
type ChangeFilter struct {
	From time.Time
	To   time.Time
}

// StartSheetParams opens a new operating period.
type StartSheetParams struct {
	StartTime       time.Time // zero means now
	StartLocation   string
	StartCycleHours float64
}

// CloseSheetParams completes the active sheet.
type CloseSheetParams struct {
	EndTime     time.Time // zero means now
	EndLocation string
}

// SheetFilter narrows sheet listings by start time.
type SheetFilter struct {
	From time.Time
	To   time.Time
}

// PlanParams carries the route and tuning knobs for stop planning. Legs
// come from the external routing service; geometry is ignored here.
type PlanParams struct {
	DepartAt          time.Time // zero means now
	PickupLocation    models.LatLon
	PickupLabel       string
	Legs              []models.RouteLeg
	FuelIntervalMiles float64
	UserFuelStop      bool
}

package hos

import (
	"fmt"
	"time"

	"trip_logger/internal/models"
)

// ----------- Planning constants -----------
const (
	DefaultFuelIntervalMiles = 1000.0 // refuel at least every 1000 miles
	FuelStopMinutes          = 30
	RestStopMinutes          = 600 // 10-hour daily reset
	PickupStopMinutes        = 60
	DropoffStopMinutes       = 60

	// Tolerance for exact limit hits in the simulated counters.
	limitEpsilon = 1e-9
)

// WarnNoRouteData flags a plan built from an empty leg list. Non-fatal:
// the caller may still render endpoint-only stops.
const WarnNoRouteData = "no route data"

// PlannerStart captures the driver's position when planning begins.
type PlannerStart struct {
	DepartAt       time.Time
	Budget         Budget // counters already accrued today / this cycle
	PickupLocation models.LatLon
	PickupLabel    string
}

// PlannerOptions tune the plan. Zero values take defaults.
type PlannerOptions struct {
	FuelIntervalMiles float64
	PickupMinutes     int
	DropoffMinutes    int
	// UserFuelStop suppresses automatic fuel insertion when the driver has
	// already placed a fuel stop on the route.
	UserFuelStop bool
}

func (o PlannerOptions) withDefaults() PlannerOptions {
	if o.FuelIntervalMiles <= 0 {
		o.FuelIntervalMiles = DefaultFuelIntervalMiles
	}
	if o.PickupMinutes <= 0 {
		o.PickupMinutes = PickupStopMinutes
	}
	if o.DropoffMinutes <= 0 {
		o.DropoffMinutes = DropoffStopMinutes
	}
	return o
}

// Plan is the ordered compliant stop list plus route totals.
type Plan struct {
	Stops              []models.Stop `json:"stops"`
	TotalDistanceMiles float64       `json:"total_distance_miles"`
	TotalDurationHours float64       `json:"total_duration_hours"`
	Warnings           []string      `json:"warnings,omitempty"`
}

// driveSim is the forward simulation state: the same counters the live
// budget tracks, advanced leg by leg.
type driveSim struct {
	clock         time.Time
	driving       float64
	onDuty        float64
	cycle         float64
	distSinceStop float64
	distSinceFuel float64
	stops         []models.Stop
}

// emit appends a stop at the current simulated position and advances the
// clock through its duration. Rest stops reset the daily counters; every
// other stop type accrues on-duty time.
func (s *driveSim) emit(stopType, label string, loc models.LatLon, minutes int) {
	arrival := s.clock
	departure := arrival.Add(time.Duration(minutes) * time.Minute)
	s.stops = append(s.stops, models.Stop{
		Sequence:             len(s.stops),
		Type:                 stopType,
		Label:                label,
		Location:             loc,
		ArrivalTime:          &arrival,
		DepartureTime:        &departure,
		DurationMinutes:      minutes,
		CycleHoursAtStop:     s.cycle,
		DistanceFromLastStop: s.distSinceStop,
		Status:               models.StopPending,
	})
	s.clock = departure
	s.distSinceStop = 0

	hours := float64(minutes) / 60
	if stopType == models.StopRest {
		s.driving = 0
		s.onDuty = 0
		return
	}
	s.onDuty += hours
	s.cycle += hours
}

// drive traverses one leg.
func (s *driveSim) drive(leg models.RouteLeg) {
	s.clock = s.clock.Add(time.Duration(leg.DurationHours * float64(time.Hour)))
	s.driving += leg.DurationHours
	s.onDuty += leg.DurationHours
	s.cycle += leg.DurationHours
	s.distSinceStop += leg.DistanceMiles
	s.distSinceFuel += leg.DistanceMiles
}

// PlanStops walks the route greedily, inserting fuel and rest stops before
// any limit would be crossed. Ties (exact limit hits) rest at the current
// leg boundary rather than proceeding. The result is a forward scan, not a
// global optimum.
func PlanStops(legs []models.RouteLeg, start PlannerStart, opts PlannerOptions) Plan {
	opts = opts.withDefaults()

	if len(legs) == 0 {
		return Plan{Warnings: []string{WarnNoRouteData}}
	}

	sim := &driveSim{
		clock:   start.DepartAt,
		driving: start.Budget.DrivingHoursToday,
		onDuty:  start.Budget.OnDutyHoursToday,
		cycle:   start.Budget.CycleHours8Day,
	}
	var warnings []string

	sim.emit(models.StopPickup, start.PickupLabel, start.PickupLocation, opts.PickupMinutes)

	current := start.PickupLocation
	currentLabel := start.PickupLabel
	totalDistance := 0.0
	for _, leg := range legs {
		// Refuel at the last boundary at or under the interval.
		if !opts.UserFuelStop && sim.distSinceFuel+leg.DistanceMiles > opts.FuelIntervalMiles+limitEpsilon {
			sim.emit(models.StopFuel, currentLabel, current, FuelStopMinutes)
			sim.distSinceFuel = 0
		}

		// Rest before any leg that would cross the daily limits.
		if sim.driving+leg.DurationHours > MaxDrivingHoursPerDay+limitEpsilon ||
			sim.onDuty+leg.DurationHours > MaxOnDutyHoursPerDay+limitEpsilon {
			sim.emit(models.StopRest, currentLabel, current, RestStopMinutes)
			if leg.DurationHours > MaxDrivingHoursPerDay+limitEpsilon {
				// A single leg longer than a full driving day cannot be
				// split at a boundary; surface it instead of looping.
				warnings = append(warnings,
					fmt.Sprintf("route leg %q exceeds the daily driving limit; no boundary to split at", leg.Label))
			}
		}

		sim.drive(leg)
		totalDistance += leg.DistanceMiles
		current = leg.EndLocation
		currentLabel = leg.Label
	}

	sim.emit(models.StopDropoff, currentLabel, current, opts.DropoffMinutes)

	return Plan{
		Stops:              sim.stops,
		TotalDistanceMiles: totalDistance,
		TotalDurationHours: sim.clock.Sub(start.DepartAt).Hours(),
		Warnings:           warnings,
	}
}

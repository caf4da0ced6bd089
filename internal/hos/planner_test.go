package hos

import (
	"testing"
	"time"

	"trip_logger/internal/models"
)

func legsOf(t *testing.T, n int, miles, hours float64) []models.RouteLeg {
	t.Helper()
	out := make([]models.RouteLeg, n)
	for i := range out {
		out[i] = models.RouteLeg{
			EndLocation:   models.LatLon{Lat: 35 + float64(i)*0.1, Lon: -101 + float64(i)*0.1},
			DistanceMiles: miles,
			DurationHours: hours,
		}
	}
	return out
}

func planStart(t *testing.T) PlannerStart {
	t.Helper()
	return PlannerStart{
		DepartAt:       time.Date(2025, time.June, 10, 6, 0, 0, 0, time.UTC),
		PickupLocation: models.LatLon{Lat: 35.2, Lon: -101.8},
		PickupLabel:    "Amarillo, TX",
	}
}

func stopsOfType(stops []models.Stop, typ string) []models.Stop {
	var out []models.Stop
	for _, s := range stops {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func TestPlanStops_PickupFirstDropoffLast(t *testing.T) {
	t.Parallel()

	plan := PlanStops(legsOf(t, 4, 50, 1), planStart(t), PlannerOptions{})

	if len(plan.Stops) < 2 {
		t.Fatalf("expected at least pickup and dropoff, got %d stops", len(plan.Stops))
	}
	first, last := plan.Stops[0], plan.Stops[len(plan.Stops)-1]
	if first.Type != models.StopPickup || first.Sequence != 0 {
		t.Fatalf("first stop = %+v; want pickup at sequence 0", first)
	}
	if last.Type != models.StopDropoff {
		t.Fatalf("last stop = %+v; want dropoff", last)
	}
	for i, s := range plan.Stops {
		if s.Sequence != i {
			t.Fatalf("sequence gap at %d: %+v", i, s)
		}
		if s.Status != models.StopPending {
			t.Fatalf("planned stop must start pending: %+v", s)
		}
	}
}

// A 1200-mile route with a 1000-mile interval and no user fuel stop gets
// exactly one fuel stop, at the boundary nearest (<=) 1000 miles.
func TestPlanStops_FuelStopAtNearestBoundary(t *testing.T) {
	t.Parallel()

	// 12 legs x 100 miles x 2h; rest stops will also appear, fuel placement
	// must still honor the distance boundary.
	plan := PlanStops(legsOf(t, 12, 100, 2), planStart(t), PlannerOptions{FuelIntervalMiles: 1000})

	fuel := stopsOfType(plan.Stops, models.StopFuel)
	if len(fuel) != 1 {
		t.Fatalf("fuel stops = %d; want exactly 1: %+v", len(fuel), fuel)
	}
	if fuel[0].DurationMinutes != FuelStopMinutes {
		t.Fatalf("fuel duration = %d; want %d", fuel[0].DurationMinutes, FuelStopMinutes)
	}

	// Cumulative distance at the fuel stop must be the last boundary at or
	// under the threshold: mile 1000 here.
	cum := 0.0
	for _, s := range plan.Stops {
		cum += s.DistanceFromLastStop
		if s.Type == models.StopFuel {
			if cum < 900 || cum > 1000 {
				t.Fatalf("fuel stop at mile %v; want within (900, 1000]", cum)
			}
			return
		}
	}
	t.Fatal("fuel stop not reached while accumulating distance")
}

func TestPlanStops_UserFuelStopSuppressesInsertion(t *testing.T) {
	t.Parallel()

	plan := PlanStops(legsOf(t, 12, 100, 1), planStart(t), PlannerOptions{UserFuelStop: true})
	if fuel := stopsOfType(plan.Stops, models.StopFuel); len(fuel) != 0 {
		t.Fatalf("user-supplied fuel stop must suppress auto insertion: %+v", fuel)
	}
}

// 11.5 simulated driving hours from a fresh budget yields one rest stop at
// the boundary corresponding to the 11-hour mark.
func TestPlanStops_RestAtElevenHourMark(t *testing.T) {
	t.Parallel()

	// 23 legs x 0.5h: boundaries every half hour of driving.
	plan := PlanStops(legsOf(t, 23, 20, 0.5), planStart(t), PlannerOptions{})

	rests := stopsOfType(plan.Stops, models.StopRest)
	if len(rests) != 1 {
		t.Fatalf("rest stops = %d; want exactly 1: %+v", len(rests), rests)
	}
	if rests[0].DurationMinutes != RestStopMinutes {
		t.Fatalf("rest duration = %d; want %d", rests[0].DurationMinutes, RestStopMinutes)
	}

	driven := 0.0
	for _, s := range plan.Stops {
		// 20 miles per half-hour leg.
		driven += s.DistanceFromLastStop / 20 * 0.5
		if s.Type == models.StopRest {
			if !almostEqual(driven, MaxDrivingHoursPerDay) {
				t.Fatalf("rest inserted at %v driving hours; want exactly %v", driven, MaxDrivingHoursPerDay)
			}
			return
		}
	}
	t.Fatal("rest stop not reached while accumulating driving time")
}

// Simulated daily counters must never exceed the limits strictly before the
// next rest stop.
func TestPlanStops_LimitsHoldBetweenRests(t *testing.T) {
	t.Parallel()

	plan := PlanStops(legsOf(t, 40, 60, 1), planStart(t), PlannerOptions{})

	driving, onDuty := 0.0, 0.0
	for _, s := range plan.Stops {
		driving += s.DistanceFromLastStop / 60 // 60 mph legs
		onDuty += s.DistanceFromLastStop / 60
		if driving > MaxDrivingHoursPerDay+limitEpsilon {
			t.Fatalf("driving reached %v before a rest at %+v", driving, s)
		}
		if onDuty > MaxOnDutyHoursPerDay+limitEpsilon {
			t.Fatalf("on-duty reached %v before a rest at %+v", onDuty, s)
		}
		switch s.Type {
		case models.StopRest:
			driving, onDuty = 0, 0
		default:
			onDuty += float64(s.DurationMinutes) / 60
		}
	}
}

func TestPlanStops_StartBudgetShortensFirstLeg(t *testing.T) {
	t.Parallel()

	start := planStart(t)
	start.Budget = Budget{DrivingHoursToday: 10, OnDutyHoursToday: 10, CycleHours8Day: 30}

	// Two 1h legs: the first already crosses 11h driving.
	plan := PlanStops(legsOf(t, 2, 60, 1), start, PlannerOptions{})

	rests := stopsOfType(plan.Stops, models.StopRest)
	if len(rests) != 1 {
		t.Fatalf("expected a rest before the second leg, got %+v", plan.Stops)
	}
	// The rest lands after the first leg (10 + 1 = 11, at-limit), making it
	// the second stop emitted.
	if rests[0].Sequence != 1 {
		t.Fatalf("rest sequence = %d; want 1 (right after pickup)", rests[0].Sequence)
	}
	if !almostEqual(rests[0].CycleHoursAtStop, 32) {
		t.Fatalf("cycle hours at rest = %v; want 32", rests[0].CycleHoursAtStop)
	}
}

func TestPlanStops_EmptyRoute(t *testing.T) {
	t.Parallel()

	plan := PlanStops(nil, planStart(t), PlannerOptions{})
	if len(plan.Stops) != 0 {
		t.Fatalf("empty route must plan no stops, got %+v", plan.Stops)
	}
	if len(plan.Warnings) != 1 || plan.Warnings[0] != WarnNoRouteData {
		t.Fatalf("expected %q warning, got %v", WarnNoRouteData, plan.Warnings)
	}
}

func TestPlanStops_ProjectedTimesAdvanceThroughStops(t *testing.T) {
	t.Parallel()

	start := planStart(t)
	plan := PlanStops(legsOf(t, 2, 50, 1), start, PlannerOptions{})

	pickup := plan.Stops[0]
	if pickup.ArrivalTime == nil || !pickup.ArrivalTime.Equal(start.DepartAt) {
		t.Fatalf("pickup arrival = %v; want departure time", pickup.ArrivalTime)
	}
	wantDropoffArrival := start.DepartAt.Add(time.Duration(PickupStopMinutes)*time.Minute + 2*time.Hour)
	last := plan.Stops[len(plan.Stops)-1]
	if last.ArrivalTime == nil || !last.ArrivalTime.Equal(wantDropoffArrival) {
		t.Fatalf("dropoff arrival = %v; want %v", last.ArrivalTime, wantDropoffArrival)
	}
	if !almostEqual(plan.TotalDistanceMiles, 100) {
		t.Fatalf("total distance = %v; want 100", plan.TotalDistanceMiles)
	}
}

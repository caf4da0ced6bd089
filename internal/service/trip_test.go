package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip_logger/internal/models"
)

// newTripFixture wires a trip service over in-memory fakes with the real
// compliance and duty-log services behind it.
func newTripFixture() (*TripService, *fakeSheetRepo, *fakeChangeRepo, *fakeStopRepo) {
	sheets := newFakeSheetRepo()
	changes := &fakeChangeRepo{}
	stops := newFakeStopRepo()
	svc := NewTripService(sheets, stops,
		NewComplianceService(sheets, changes),
		NewDutyLogService(sheets, changes))
	return svc, sheets, changes, stops
}

func seedStop(repo *fakeStopRepo, id, stopType, status string, minutes int) models.Stop {
	stop := models.Stop{
		ID:              id,
		SheetID:         "sheet-1",
		Sequence:        len(repo.stops),
		Type:            stopType,
		Label:           "Joliet, IL",
		Location:        models.LatLon{Lat: 41.5250, Lon: -88.0817},
		DurationMinutes: minutes,
		Status:          status,
	}
	repo.stops[id] = stop
	return stop
}

func TestTripService_Plan_NoActiveSheet(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTripFixture()

	_, err := svc.Plan(context.Background(), 1, PlanParams{})
	if !errors.Is(err, ErrNoActiveSheet) {
		t.Fatalf("expected ErrNoActiveSheet, got %v", err)
	}
}

func TestTripService_Plan_PersistsStops(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)

	plan, err := svc.Plan(context.Background(), 1, PlanParams{
		DepartAt:       dayStart,
		PickupLocation: models.LatLon{Lat: 41.8781, Lon: -87.6298},
		PickupLabel:    "Chicago, IL",
		Legs: []models.RouteLeg{
			{EndLocation: models.LatLon{Lat: 41.5868, Lon: -93.6250}, Label: "Des Moines, IA", DistanceMiles: 333, DurationHours: 5},
		},
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Stops) != 2 {
		t.Fatalf("expected pickup and dropoff, got %d stops", len(plan.Stops))
	}
	if plan.Stops[0].Type != models.StopPickup || plan.Stops[1].Type != models.StopDropoff {
		t.Errorf("expected pickup then dropoff, got %q then %q", plan.Stops[0].Type, plan.Stops[1].Type)
	}
	for _, s := range plan.Stops {
		if s.ID == "" || s.SheetID != "sheet-1" {
			t.Errorf("stop not bound to the sheet: %+v", s)
		}
	}
	saved, _ := stops.ListBySheet(context.Background(), "sheet-1")
	if len(saved) != 2 {
		t.Fatalf("expected 2 persisted stops, got %d", len(saved))
	}
}

func TestTripService_Plan_ReplacesPreviousPlan(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "old-stop", models.StopFuel, models.StopPending, 30)

	_, err := svc.Plan(context.Background(), 1, PlanParams{
		DepartAt: dayStart,
		Legs: []models.RouteLeg{
			{Label: "Des Moines, IA", DistanceMiles: 333, DurationHours: 5},
		},
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if _, ok := stops.stops["old-stop"]; ok {
		t.Errorf("previous plan's stops should be replaced")
	}
}

func TestTripService_Arrive_FuelStopGoesOnDuty(t *testing.T) {
	t.Parallel()
	svc, sheets, changes, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "stop-1", models.StopFuel, models.StopPending, 30)

	at := dayStart.Add(2 * time.Hour)
	got, err := svc.Arrive(context.Background(), 1, "stop-1", at)
	if err != nil {
		t.Fatalf("Arrive returned error: %v", err)
	}
	if got.Status != models.StopCompleted {
		t.Errorf("expected COMPLETED, got %q", got.Status)
	}
	if got.ArrivalTime == nil || !got.ArrivalTime.Equal(at) {
		t.Errorf("arrival time not recorded: %v", got.ArrivalTime)
	}
	if len(changes.changes) != 1 || changes.changes[0].Status != models.OnDuty {
		t.Fatalf("expected one OnDuty change, got %+v", changes.changes)
	}
	if changes.changes[0].Location == nil {
		t.Errorf("expected the stop location on the change")
	}
}

func TestTripService_Arrive_LongRestGoesSleeperBerth(t *testing.T) {
	t.Parallel()
	svc, sheets, changes, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "stop-1", models.StopRest, models.StopPending, 600)

	_, err := svc.Arrive(context.Background(), 1, "stop-1", dayStart.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("Arrive returned error: %v", err)
	}
	if len(changes.changes) != 1 || changes.changes[0].Status != models.SleeperBerth {
		t.Fatalf("expected SleeperBerth change for a 10h rest, got %+v", changes.changes)
	}
}

func TestTripService_Arrive_ShortRestGoesOffDuty(t *testing.T) {
	t.Parallel()
	svc, sheets, changes, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "stop-1", models.StopRest, models.StopPending, 45)

	_, err := svc.Arrive(context.Background(), 1, "stop-1", dayStart.Add(time.Hour))
	if err != nil {
		t.Fatalf("Arrive returned error: %v", err)
	}
	if len(changes.changes) != 1 || changes.changes[0].Status != models.OffDuty {
		t.Fatalf("expected OffDuty change for a 45m rest, got %+v", changes.changes)
	}
}

func TestTripService_Arrive_NotPending(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "stop-1", models.StopFuel, models.StopCompleted, 30)

	_, err := svc.Arrive(context.Background(), 1, "stop-1", dayStart)
	if !errors.Is(err, ErrStopNotPending) {
		t.Fatalf("expected ErrStopNotPending, got %v", err)
	}
}

func TestTripService_Depart_ResumesDriving(t *testing.T) {
	t.Parallel()
	svc, sheets, changes, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	stop := seedStop(stops, "stop-1", models.StopFuel, models.StopCompleted, 30)
	arrived := dayStart.Add(2 * time.Hour)
	stop.ArrivalTime = &arrived
	stops.stops[stop.ID] = stop

	at := arrived.Add(30 * time.Minute)
	got, err := svc.Depart(context.Background(), 1, "stop-1", at)
	if err != nil {
		t.Fatalf("Depart returned error: %v", err)
	}
	if got.DepartureTime == nil || !got.DepartureTime.Equal(at) {
		t.Errorf("departure time not recorded: %v", got.DepartureTime)
	}
	if len(changes.changes) != 1 || changes.changes[0].Status != models.Driving {
		t.Fatalf("expected Driving change, got %+v", changes.changes)
	}
}

func TestTripService_Depart_DropoffEndsOffDuty(t *testing.T) {
	t.Parallel()
	svc, sheets, changes, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	stop := seedStop(stops, "stop-1", models.StopDropoff, models.StopCompleted, 60)
	arrived := dayStart.Add(6 * time.Hour)
	stop.ArrivalTime = &arrived
	stops.stops[stop.ID] = stop

	_, err := svc.Depart(context.Background(), 1, "stop-1", arrived.Add(time.Hour))
	if err != nil {
		t.Fatalf("Depart returned error: %v", err)
	}
	if len(changes.changes) != 1 || changes.changes[0].Status != models.OffDuty {
		t.Fatalf("expected OffDuty change after dropoff, got %+v", changes.changes)
	}
}

func TestTripService_Depart_WithoutArrival(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "stop-1", models.StopFuel, models.StopPending, 30)

	_, err := svc.Depart(context.Background(), 1, "stop-1", dayStart)
	if !errors.Is(err, ErrStopNotArrived) {
		t.Fatalf("expected ErrStopNotArrived, got %v", err)
	}
}

func TestTripService_Skip_OnlyRestAndFuel(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "fuel", models.StopFuel, models.StopPending, 30)
	seedStop(stops, "pickup", models.StopPickup, models.StopPending, 60)

	got, err := svc.Skip(context.Background(), 1, "fuel")
	if err != nil {
		t.Fatalf("Skip returned error: %v", err)
	}
	if got.Status != models.StopSkipped {
		t.Errorf("expected SKIPPED, got %q", got.Status)
	}

	_, err = svc.Skip(context.Background(), 1, "pickup")
	if !errors.Is(err, ErrStopNotRemovable) {
		t.Fatalf("expected ErrStopNotRemovable for pickup, got %v", err)
	}
}

func TestTripService_RemoveStop(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	seedStop(stops, "rest", models.StopRest, models.StopPending, 600)
	seedStop(stops, "done", models.StopFuel, models.StopCompleted, 30)

	if err := svc.RemoveStop(context.Background(), 1, "rest"); err != nil {
		t.Fatalf("RemoveStop returned error: %v", err)
	}
	if _, ok := stops.stops["rest"]; ok {
		t.Errorf("stop should be deleted")
	}

	err := svc.RemoveStop(context.Background(), 1, "done")
	if !errors.Is(err, ErrStopNotPending) {
		t.Fatalf("expected ErrStopNotPending for completed stop, got %v", err)
	}
}

func TestTripService_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	svc, sheets, _, stops := newTripFixture()
	activeSheetAt(sheets, dayStart)
	// Driver 2 has their own active sheet; the stop belongs to driver 1.
	sheets.sheets["sheet-2"] = models.LogSheet{
		ID: "sheet-2", DriverID: 2, StartTime: dayStart, Status: models.SheetActive,
	}
	seedStop(stops, "stop-1", models.StopFuel, models.StopPending, 30)

	_, err := svc.Arrive(context.Background(), 2, "stop-1", dayStart)
	if !errors.Is(err, ErrStopNotFound) {
		t.Fatalf("expected ErrStopNotFound for foreign stop, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"trip_logger/internal/hos"
	"trip_logger/internal/models"
	"trip_logger/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrStopNotFound     = errors.New("stop not found")
	ErrStopNotPending   = errors.New("stop is not pending")
	ErrStopNotArrived   = errors.New("stop has no confirmed arrival")
	ErrStopNotRemovable = errors.New("only pending rest and fuel stops can be removed")
)

// A rest of at least this length is taken in the sleeper berth; shorter
// breaks are plain off-duty.
const sleeperRestMinutes = 8 * 60

type TripService struct {
	sheetRepo  repository.SheetRepo
	stopRepo   repository.StopRepo
	compliance Compliance
	dutyLog    DutyLog
}

func NewTripService(sheetRepo repository.SheetRepo, stopRepo repository.StopRepo, compliance Compliance, dutyLog DutyLog) *TripService {
	return &TripService{
		sheetRepo:  sheetRepo,
		stopRepo:   stopRepo,
		compliance: compliance,
		dutyLog:    dutyLog,
	}
}

// Plan runs the greedy stop planner against the driver's live budget and
// persists the resulting stop list, replacing any previous plan for the
// active sheet.
func (s *TripService) Plan(ctx context.Context, driverID int, p PlanParams) (hos.Plan, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return hos.Plan{}, err
	}
	if sheet.ID == "" {
		return hos.Plan{}, ErrNoActiveSheet
	}

	departAt := p.DepartAt
	if departAt.IsZero() {
		departAt = time.Now()
	}
	departAt = departAt.UTC()

	budget, err := s.compliance.Budget(ctx, driverID, departAt)
	if err != nil {
		return hos.Plan{}, err
	}

	plan := hos.PlanStops(p.Legs, hos.PlannerStart{
		DepartAt:       departAt,
		Budget:         budget,
		PickupLocation: p.PickupLocation,
		PickupLabel:    p.PickupLabel,
	}, hos.PlannerOptions{
		FuelIntervalMiles: p.FuelIntervalMiles,
		UserFuelStop:      p.UserFuelStop,
	})

	for i := range plan.Stops {
		plan.Stops[i].ID = uuid.NewString()
		plan.Stops[i].SheetID = sheet.ID
	}
	if err := s.stopRepo.SavePlan(ctx, sheet.ID, plan.Stops); err != nil {
		return hos.Plan{}, err
	}
	return plan, nil
}

// Stops lists the active sheet's plan in route order.
func (s *TripService) Stops(ctx context.Context, driverID int) ([]models.Stop, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if sheet.ID == "" {
		return nil, ErrNoActiveSheet
	}
	return s.stopRepo.ListBySheet(ctx, sheet.ID)
}

// Arrive confirms arrival at a pending stop and feeds the induced duty
// status back into the ledger: rests put the driver off duty (sleeper
// berth for overnight resets), every other stop type is on-duty work.
func (s *TripService) Arrive(ctx context.Context, driverID int, stopID string, at time.Time) (models.Stop, error) {
	stop, err := s.ownedStop(ctx, driverID, stopID)
	if err != nil {
		return models.Stop{}, err
	}
	if stop.Status != models.StopPending {
		return models.Stop{}, ErrStopNotPending
	}

	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	if err := s.stopRepo.UpdateExecution(ctx, stop.ID, models.StopCompleted, &at, nil); err != nil {
		return models.Stop{}, err
	}

	status := models.OnDuty
	if stop.Type == models.StopRest {
		if stop.DurationMinutes >= sleeperRestMinutes {
			status = models.SleeperBerth
		} else {
			status = models.OffDuty
		}
	}
	if _, err := s.dutyLog.Record(ctx, driverID, ChangeParams{
		Timestamp: at,
		Status:    status,
		Location:  &stop.Location,
	}); err != nil {
		return models.Stop{}, err
	}

	stop.Status = models.StopCompleted
	stop.ArrivalTime = &at
	stop.DepartureTime = nil
	return stop, nil
}

// Depart records departure from a completed stop and transitions the
// driver back to Driving (off duty after the final dropoff). The limit
// check in the duty log still applies: departing into an exhausted
// driving budget is refused.
func (s *TripService) Depart(ctx context.Context, driverID int, stopID string, at time.Time) (models.Stop, error) {
	stop, err := s.ownedStop(ctx, driverID, stopID)
	if err != nil {
		return models.Stop{}, err
	}
	if stop.Status != models.StopCompleted || stop.ArrivalTime == nil {
		return models.Stop{}, ErrStopNotArrived
	}

	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	status := models.Driving
	if stop.Type == models.StopDropoff {
		status = models.OffDuty
	}
	if _, err := s.dutyLog.Record(ctx, driverID, ChangeParams{
		Timestamp: at,
		Status:    status,
		Location:  &stop.Location,
	}); err != nil {
		return models.Stop{}, err
	}

	if err := s.stopRepo.UpdateExecution(ctx, stop.ID, models.StopCompleted, stop.ArrivalTime, &at); err != nil {
		return models.Stop{}, err
	}

	stop.DepartureTime = &at
	return stop, nil
}

// Skip marks a pending rest or fuel stop as skipped. Pickup and dropoff
// cannot be skipped.
func (s *TripService) Skip(ctx context.Context, driverID int, stopID string) (models.Stop, error) {
	stop, err := s.ownedStop(ctx, driverID, stopID)
	if err != nil {
		return models.Stop{}, err
	}
	if stop.Type != models.StopRest && stop.Type != models.StopFuel {
		return models.Stop{}, ErrStopNotRemovable
	}
	if stop.Status != models.StopPending {
		return models.Stop{}, ErrStopNotPending
	}

	if err := s.stopRepo.UpdateExecution(ctx, stop.ID, models.StopSkipped, nil, nil); err != nil {
		return models.Stop{}, err
	}
	stop.Status = models.StopSkipped
	return stop, nil
}

// RemoveStop deletes a pending rest or fuel stop the user placed or no
// longer wants. Executed stops and pickup/dropoff stay.
func (s *TripService) RemoveStop(ctx context.Context, driverID int, stopID string) error {
	stop, err := s.ownedStop(ctx, driverID, stopID)
	if err != nil {
		return err
	}
	if stop.Type != models.StopRest && stop.Type != models.StopFuel {
		return ErrStopNotRemovable
	}
	if stop.Status != models.StopPending {
		return ErrStopNotPending
	}
	return s.stopRepo.Delete(ctx, stop.ID)
}

// ownedStop fetches a stop and verifies it belongs to the driver's active
// sheet. Anything else reads as not-found.
func (s *TripService) ownedStop(ctx context.Context, driverID int, stopID string) (models.Stop, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return models.Stop{}, err
	}
	if sheet.ID == "" {
		return models.Stop{}, ErrNoActiveSheet
	}

	stop, err := s.stopRepo.GetByID(ctx, stopID)
	if err != nil {
		return models.Stop{}, err
	}
	if stop.ID == "" || stop.SheetID != sheet.ID {
		return models.Stop{}, ErrStopNotFound
	}
	return stop, nil
}

package service

import (
	"context"
	"time"

	"trip_logger/internal/hos"
	"trip_logger/internal/models"
	"trip_logger/internal/repository"
)

type ComplianceService struct {
	sheetRepo  repository.SheetRepo
	changeRepo repository.ChangeRepo
}

func NewComplianceService(sheetRepo repository.SheetRepo, changeRepo repository.ChangeRepo) *ComplianceService {
	return &ComplianceService{sheetRepo: sheetRepo, changeRepo: changeRepo}
}

// Budget recomputes the remaining-hours snapshot from the active sheet
// plus the trailing cycle window of completed sheets. Read-only and cheap
// enough to re-derive on every call; no caching.
//
// When the driver has no active sheet it returns a zero budget with a
// warning rather than failing: the UI badge keeps rendering.
func (s *ComplianceService) Budget(ctx context.Context, driverID int, now time.Time) (hos.Budget, error) {
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return hos.Budget{}, err
	}
	if sheet.ID == "" {
		return hos.Budget{
			HoursUntilBreakRequired: hos.BreakAfterDrivingHours,
			Warnings:                []string{"no active log sheet; budget is a baseline"},
		}, nil
	}

	changes, err := s.changeRepo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return hos.Budget{}, err
	}

	prior, err := s.priorCycleHours(ctx, sheet, now)
	if err != nil {
		return hos.Budget{}, err
	}

	return hos.Evaluate(hos.LedgerOf(changes), hos.EvalInput{
		DayStart:        sheet.StartTime,
		Now:             now,
		PriorCycleHours: prior,
	}), nil
}

// priorCycleHours sums on-duty-equivalent hours over completed sheets in
// the trailing cycle window (8 calendar days including today). When the
// window holds no completed history the active sheet's carried
// start_cycle_hours stands in, so a fresh install still reports a real
// cycle total.
func (s *ComplianceService) priorCycleHours(ctx context.Context, active models.LogSheet, now time.Time) (float64, error) {
	windowStart := startOfDay(now).AddDate(0, 0, -(hos.CycleWindowDays - 1))

	sheets, err := s.sheetRepo.List(ctx, active.DriverID, windowStart, now)
	if err != nil {
		return 0, err
	}

	total := 0.0
	counted := false
	for _, sheet := range sheets {
		if sheet.Status != models.SheetCompleted || sheet.EndTime == nil {
			continue
		}
		changes, err := s.changeRepo.ListBySheet(ctx, sheet.ID)
		if err != nil {
			return 0, err
		}
		byStatus := hos.LedgerOf(changes).HoursByStatus(sheet.StartTime, *sheet.EndTime)
		total += byStatus[models.Driving].Hours() + byStatus[models.OnDuty].Hours()
		counted = true
	}

	if !counted {
		return active.StartCycleHours, nil
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

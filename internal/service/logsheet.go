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
	ErrSheetAlreadyActive = errors.New("driver already has an active log sheet")
	ErrSheetNotFound      = errors.New("log sheet not found")
)

type LogSheetService struct {
	sheetRepo  repository.SheetRepo
	changeRepo repository.ChangeRepo
}

func NewLogSheetService(sheetRepo repository.SheetRepo, changeRepo repository.ChangeRepo) *LogSheetService {
	return &LogSheetService{sheetRepo: sheetRepo, changeRepo: changeRepo}
}

// Start opens a new operating period. At most one sheet may be active per
// driver; the previous one must be closed first.
func (s *LogSheetService) Start(ctx context.Context, driverID int, p StartSheetParams) (models.LogSheet, error) {
	existing, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return models.LogSheet{}, err
	}
	if existing.ID != "" {
		return models.LogSheet{}, ErrSheetAlreadyActive
	}

	startTime := p.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	sheet := models.LogSheet{
		ID:              uuid.NewString(),
		DriverID:        driverID,
		StartTime:       startTime.UTC(),
		StartLocation:   p.StartLocation,
		StartCycleHours: p.StartCycleHours,
		Status:          models.SheetActive,
	}
	if err := s.sheetRepo.Create(ctx, sheet); err != nil {
		return models.LogSheet{}, err
	}
	return sheet, nil
}

// Close completes the active sheet, deriving end_cycle_hours from the
// recorded history rather than trusting the caller.
func (s *LogSheetService) Close(ctx context.Context, driverID int, p CloseSheetParams) (models.LogSheet, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return models.LogSheet{}, err
	}
	if sheet.ID == "" {
		return models.LogSheet{}, ErrNoActiveSheet
	}

	endTime := p.EndTime
	if endTime.IsZero() {
		endTime = time.Now()
	}
	endTime = endTime.UTC()

	changes, err := s.changeRepo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return models.LogSheet{}, err
	}
	byStatus := hos.LedgerOf(changes).HoursByStatus(sheet.StartTime, endTime)
	endCycle := sheet.StartCycleHours +
		byStatus[models.Driving].Hours() + byStatus[models.OnDuty].Hours()

	if err := s.sheetRepo.Close(ctx, sheet.ID, endTime, p.EndLocation, endCycle); err != nil {
		return models.LogSheet{}, err
	}

	sheet.EndTime = &endTime
	sheet.EndLocation = p.EndLocation
	sheet.EndCycleHours = &endCycle
	sheet.Status = models.SheetCompleted
	return sheet, nil
}

// Active returns the driver's open sheet.
func (s *LogSheetService) Active(ctx context.Context, driverID int) (models.LogSheet, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return models.LogSheet{}, err
	}
	if sheet.ID == "" {
		return models.LogSheet{}, ErrNoActiveSheet
	}
	return sheet, nil
}

// List returns the driver's sheets filtered by start time.
func (s *LogSheetService) List(ctx context.Context, driverID int, f SheetFilter) ([]models.LogSheet, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.sheetRepo.List(ctx, driverID, from, to)
}

// Timeline builds the 25-slot daily grid for one calendar day of a sheet.
func (s *LogSheetService) Timeline(ctx context.Context, driverID int, sheetID string, date time.Time) (hos.DailyTimeline, error) {
	sheet, err := s.ownedSheet(ctx, driverID, sheetID)
	if err != nil {
		return hos.DailyTimeline{}, err
	}

	changes, err := s.changeRepo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return hos.DailyTimeline{}, err
	}
	remarks, err := s.sheetRepo.ListRemarks(ctx, sheet.ID)
	if err != nil {
		return hos.DailyTimeline{}, err
	}
	return hos.BuildDailyTimeline(date, changes, remarks), nil
}

// AddRemark attaches a location-tagged note to a sheet.
func (s *LogSheetService) AddRemark(ctx context.Context, driverID int, sheetID string, r models.Remark) error {
	sheet, err := s.ownedSheet(ctx, driverID, sheetID)
	if err != nil {
		return err
	}
	return s.sheetRepo.AddRemark(ctx, sheet.ID, r)
}

// ownedSheet fetches a sheet and verifies it belongs to the driver.
// Another driver's sheet reads as not-found.
func (s *LogSheetService) ownedSheet(ctx context.Context, driverID int, sheetID string) (models.LogSheet, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, sheetID)
	if err != nil {
		return models.LogSheet{}, err
	}
	if sheet.ID == "" || sheet.DriverID != driverID {
		return models.LogSheet{}, ErrSheetNotFound
	}
	return sheet, nil
}

package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"trip_logger/internal/hos"
	"trip_logger/internal/models"
	"trip_logger/internal/repository"

	"github.com/google/uuid"
)

// Domain errors surfaced to the caller. All recoverable: pick another
// status, resort the batch, or start a sheet first.
var (
	ErrNoActiveSheet       = errors.New("driver has no active log sheet")
	ErrDrivingLimitReached = errors.New("daily driving limit reached: transition to driving refused")
	errInvalidTimeRange    = errors.New("invalid time range: From must be <= To")
)

type DutyLogService struct {
	sheetRepo  repository.SheetRepo
	changeRepo repository.ChangeRepo
}

func NewDutyLogService(sheetRepo repository.SheetRepo, changeRepo repository.ChangeRepo) *DutyLogService {
	return &DutyLogService{sheetRepo: sheetRepo, changeRepo: changeRepo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// activeLedger loads the driver's active sheet and replays its history
// into a ledger.
func (s *DutyLogService) activeLedger(ctx context.Context, driverID int) (models.LogSheet, *hos.Ledger, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return models.LogSheet{}, nil, err
	}
	if sheet.ID == "" {
		return models.LogSheet{}, nil, ErrNoActiveSheet
	}
	changes, err := s.changeRepo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return models.LogSheet{}, nil, err
	}
	return sheet, hos.LedgerOf(changes), nil
}

// Record appends one transition to the active sheet. A timestamp behind
// the recorded history yields hos.ErrOutOfOrderEvent; a transition to
// Driving at or past the daily limit yields ErrDrivingLimitReached; a
// duplicate of the current status is a silent no-op.
func (s *DutyLogService) Record(ctx context.Context, driverID int, p ChangeParams) (models.DutyStatusChange, error) {
	sheet, ledger, err := s.activeLedger(ctx, driverID)
	if err != nil {
		return models.DutyStatusChange{}, err
	}
	return s.record(ctx, sheet, ledger, p)
}

func (s *DutyLogService) record(ctx context.Context, sheet models.LogSheet, ledger *hos.Ledger, p ChangeParams) (models.DutyStatusChange, error) {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()

	if p.Status == models.Driving {
		budget := hos.Evaluate(ledger, hos.EvalInput{DayStart: sheet.StartTime, Now: ts})
		if budget.DrivingLimitReached() {
			return models.DutyStatusChange{}, ErrDrivingLimitReached
		}
	}

	change := models.DutyStatusChange{
		ID:        uuid.NewString(),
		SheetID:   sheet.ID,
		Timestamp: ts,
		Status:    p.Status,
		Location:  p.Location,
	}

	before := ledger.Len()
	if err := ledger.Record(change); err != nil {
		return models.DutyStatusChange{}, err
	}
	if ledger.Len() == before {
		// Collapsed duplicate: the ledger is unchanged, skip the write.
		return change, nil
	}

	if err := s.changeRepo.Append(ctx, change); err != nil {
		return models.DutyStatusChange{}, err
	}
	return change, nil
}

// RecordBatch sorts a possibly unordered batch and records it in timestamp
// order. Stops at the first failure, returning what landed.
func (s *DutyLogService) RecordBatch(ctx context.Context, driverID int, batch []ChangeParams) ([]models.DutyStatusChange, error) {
	sheet, ledger, err := s.activeLedger(ctx, driverID)
	if err != nil {
		return nil, err
	}

	sorted := make([]ChangeParams, len(batch))
	copy(sorted, batch)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	recorded := make([]models.DutyStatusChange, 0, len(sorted))
	for _, p := range sorted {
		c, err := s.record(ctx, sheet, ledger, p)
		if err != nil {
			return recorded, err
		}
		recorded = append(recorded, c)
	}
	return recorded, nil
}

// Current returns the status in effect at the given instant (now when
// zero) on the active sheet.
func (s *DutyLogService) Current(ctx context.Context, driverID int, at time.Time) (models.DutyStatus, error) {
	_, ledger, err := s.activeLedger(ctx, driverID)
	if err != nil {
		return hos.DefaultStatus, err
	}
	if at.IsZero() {
		at = time.Now()
	}
	return ledger.StatusAt(at.UTC()), nil
}

// History lists the active sheet's changes inside the filter range.
func (s *DutyLogService) History(ctx context.Context, driverID int, f ChangeFilter) ([]models.DutyStatusChange, error) {
	sheet, err := s.sheetRepo.GetActive(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if sheet.ID == "" {
		return nil, ErrNoActiveSheet
	}

	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.changeRepo.ListByRange(ctx, sheet.ID, from, to)
}

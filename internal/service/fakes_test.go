package service

import (
	"context"
	"sort"
	"time"

	"trip_logger/internal/models"
)

// In-memory fakes for the repository interfaces. Each carries an optional
// forced error so failure paths stay testable.

type fakeSheetRepo struct {
	sheets  map[string]models.LogSheet
	remarks map[string][]models.Remark
	err     error
}

func newFakeSheetRepo() *fakeSheetRepo {
	return &fakeSheetRepo{
		sheets:  make(map[string]models.LogSheet),
		remarks: make(map[string][]models.Remark),
	}
}

func (f *fakeSheetRepo) Create(ctx context.Context, s models.LogSheet) error {
	if f.err != nil {
		return f.err
	}
	f.sheets[s.ID] = s
	return nil
}

func (f *fakeSheetRepo) GetByID(ctx context.Context, id string) (models.LogSheet, error) {
	if f.err != nil {
		return models.LogSheet{}, f.err
	}
	return f.sheets[id], nil
}

func (f *fakeSheetRepo) GetActive(ctx context.Context, driverID int) (models.LogSheet, error) {
	if f.err != nil {
		return models.LogSheet{}, f.err
	}
	for _, s := range f.sheets {
		if s.DriverID == driverID && s.Status == models.SheetActive {
			return s, nil
		}
	}
	return models.LogSheet{}, nil
}

func (f *fakeSheetRepo) Close(ctx context.Context, id string, endTime time.Time, endLocation string, endCycleHours float64) error {
	if f.err != nil {
		return f.err
	}
	s := f.sheets[id]
	s.EndTime = &endTime
	s.EndLocation = endLocation
	s.EndCycleHours = &endCycleHours
	s.Status = models.SheetCompleted
	f.sheets[id] = s
	return nil
}

func (f *fakeSheetRepo) List(ctx context.Context, driverID int, from, to time.Time) ([]models.LogSheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.LogSheet
	for _, s := range f.sheets {
		if s.DriverID != driverID {
			continue
		}
		if !from.IsZero() && s.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && s.StartTime.After(to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeSheetRepo) AddRemark(ctx context.Context, sheetID string, r models.Remark) error {
	if f.err != nil {
		return f.err
	}
	f.remarks[sheetID] = append(f.remarks[sheetID], r)
	return nil
}

func (f *fakeSheetRepo) ListRemarks(ctx context.Context, sheetID string) ([]models.Remark, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.remarks[sheetID], nil
}

type fakeChangeRepo struct {
	changes []models.DutyStatusChange
	err     error
}

func (f *fakeChangeRepo) Append(ctx context.Context, c models.DutyStatusChange) error {
	if f.err != nil {
		return f.err
	}
	f.changes = append(f.changes, c)
	return nil
}

func (f *fakeChangeRepo) ListBySheet(ctx context.Context, sheetID string) ([]models.DutyStatusChange, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.DutyStatusChange
	for _, c := range f.changes {
		if c.SheetID == sheetID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChangeRepo) ListByRange(ctx context.Context, sheetID string, from, to time.Time) ([]models.DutyStatusChange, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.DutyStatusChange
	for _, c := range f.changes {
		if c.SheetID != sheetID {
			continue
		}
		if !from.IsZero() && c.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && c.Timestamp.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeStopRepo struct {
	stops map[string]models.Stop
	err   error
}

func newFakeStopRepo() *fakeStopRepo {
	return &fakeStopRepo{stops: make(map[string]models.Stop)}
}

func (f *fakeStopRepo) SavePlan(ctx context.Context, sheetID string, stops []models.Stop) error {
	if f.err != nil {
		return f.err
	}
	for id, s := range f.stops {
		if s.SheetID == sheetID {
			delete(f.stops, id)
		}
	}
	for _, s := range stops {
		f.stops[s.ID] = s
	}
	return nil
}

func (f *fakeStopRepo) GetByID(ctx context.Context, id string) (models.Stop, error) {
	if f.err != nil {
		return models.Stop{}, f.err
	}
	return f.stops[id], nil
}

func (f *fakeStopRepo) ListBySheet(ctx context.Context, sheetID string) ([]models.Stop, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Stop
	for _, s := range f.stops {
		if s.SheetID == sheetID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeStopRepo) UpdateExecution(ctx context.Context, id, status string, arrival, departure *time.Time) error {
	if f.err != nil {
		return f.err
	}
	s := f.stops[id]
	s.Status = status
	s.ArrivalTime = arrival
	s.DepartureTime = departure
	f.stops[id] = s
	return nil
}

func (f *fakeStopRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.stops, id)
	return nil
}

// activeSheetAt seeds a fresh active sheet for driver 1 starting at start.
func activeSheetAt(repo *fakeSheetRepo, start time.Time) models.LogSheet {
	sheet := models.LogSheet{
		ID:            "sheet-1",
		DriverID:      1,
		StartTime:     start,
		StartLocation: "Chicago, IL",
		Status:        models.SheetActive,
	}
	repo.sheets[sheet.ID] = sheet
	return sheet
}

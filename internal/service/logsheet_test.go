package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip_logger/internal/models"
)

func TestLogSheetService_Start_CreatesActiveSheet(t *testing.T) {
	t.Parallel()
	sheets := newFakeSheetRepo()
	svc := NewLogSheetService(sheets, &fakeChangeRepo{})

	sheet, err := svc.Start(context.Background(), 1, StartSheetParams{
		StartTime:       dayStart,
		StartLocation:   "Chicago, IL",
		StartCycleHours: 12.5,
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if sheet.ID == "" {
		t.Errorf("expected generated sheet ID")
	}
	if sheet.Status != models.SheetActive {
		t.Errorf("expected ACTIVE status, got %q", sheet.Status)
	}
	if sheet.StartTime.Location() != time.UTC {
		t.Errorf("expected UTC start time")
	}
	if _, ok := sheets.sheets[sheet.ID]; !ok {
		t.Errorf("sheet was not persisted")
	}
}

func TestLogSheetService_Start_RefusesSecondActiveSheet(t *testing.T) {
	t.Parallel()
	sheets := newFakeSheetRepo()
	activeSheetAt(sheets, dayStart)
	svc := NewLogSheetService(sheets, &fakeChangeRepo{})

	_, err := svc.Start(context.Background(), 1, StartSheetParams{})
	if !errors.Is(err, ErrSheetAlreadyActive) {
		t.Fatalf("expected ErrSheetAlreadyActive, got %v", err)
	}
}

func TestLogSheetService_Close_DerivesEndCycleHours(t *testing.T) {
	t.Parallel()
	sheets := newFakeSheetRepo()
	sheet := activeSheetAt(sheets, dayStart)
	sheet.StartCycleHours = 20
	sheets.sheets[sheet.ID] = sheet

	changes := &fakeChangeRepo{}
	// 3h driving then 1h on-duty then off.
	seedChange(changes, dayStart, models.Driving)
	seedChange(changes, dayStart.Add(3*time.Hour), models.OnDuty)
	seedChange(changes, dayStart.Add(4*time.Hour), models.OffDuty)

	svc := NewLogSheetService(sheets, changes)
	closed, err := svc.Close(context.Background(), 1, CloseSheetParams{
		EndTime:     dayStart.Add(10 * time.Hour),
		EndLocation: "Des Moines, IA",
	})
	if err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if closed.Status != models.SheetCompleted {
		t.Errorf("expected COMPLETED status, got %q", closed.Status)
	}
	if closed.EndCycleHours == nil {
		t.Fatalf("expected derived end cycle hours")
	}
	if got := *closed.EndCycleHours; !budgetAlmostEqual(got, 24) {
		t.Errorf("expected 20 carried + 4 worked = 24, got %v", got)
	}
	if got := sheets.sheets[sheet.ID]; got.Status != models.SheetCompleted {
		t.Errorf("close was not persisted")
	}
}

func TestLogSheetService_Close_NoActiveSheet(t *testing.T) {
	t.Parallel()
	svc := NewLogSheetService(newFakeSheetRepo(), &fakeChangeRepo{})

	_, err := svc.Close(context.Background(), 1, CloseSheetParams{})
	if !errors.Is(err, ErrNoActiveSheet) {
		t.Fatalf("expected ErrNoActiveSheet, got %v", err)
	}
}

func TestLogSheetService_Timeline_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	sheets := newFakeSheetRepo()
	activeSheetAt(sheets, dayStart)
	svc := NewLogSheetService(sheets, &fakeChangeRepo{})

	// Driver 2 asking for driver 1's sheet reads as not-found.
	_, err := svc.Timeline(context.Background(), 2, "sheet-1", dayStart)
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestLogSheetService_Timeline_BuildsGrid(t *testing.T) {
	t.Parallel()
	sheets := newFakeSheetRepo()
	activeSheetAt(sheets, dayStart)
	changes := &fakeChangeRepo{}
	seedChange(changes, dayStart.Add(2*time.Hour), models.Driving) // 08:00
	svc := NewLogSheetService(sheets, changes)

	tl, err := svc.Timeline(context.Background(), 1, "sheet-1", dayStart)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	if len(tl.Slots) != 25 {
		t.Fatalf("expected 25 slots, got %d", len(tl.Slots))
	}
	if tl.Slots[8].Status != models.Driving {
		t.Errorf("expected Driving at hour 8, got %v", tl.Slots[8].Status)
	}
}

func TestLogSheetService_AddRemark(t *testing.T) {
	t.Parallel()
	sheets := newFakeSheetRepo()
	activeSheetAt(sheets, dayStart)
	svc := NewLogSheetService(sheets, &fakeChangeRepo{})

	r := models.Remark{Time: "10:30", Location: "Gary, IN"}
	if err := svc.AddRemark(context.Background(), 1, "sheet-1", r); err != nil {
		t.Fatalf("AddRemark returned error: %v", err)
	}
	if got := sheets.remarks["sheet-1"]; len(got) != 1 || got[0].Location != "Gary, IN" {
		t.Errorf("remark was not persisted: %+v", got)
	}
}

func TestLogSheetService_List_InvalidRange(t *testing.T) {
	t.Parallel()
	svc := NewLogSheetService(newFakeSheetRepo(), &fakeChangeRepo{})

	_, err := svc.List(context.Background(), 1, SheetFilter{
		From: dayStart.Add(time.Hour),
		To:   dayStart,
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected invalid range error, got %v", err)
	}
}

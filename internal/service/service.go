package service

import (
	"context"
	"time"

	"trip_logger/internal/hos"
	"trip_logger/internal/models"
	"trip_logger/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// DutyLog exposes the driver's append-only status history: recording
// transitions against the active sheet and point-in-time queries.
type DutyLog interface {
	Record(ctx context.Context, driverID int, p ChangeParams) (models.DutyStatusChange, error)
	RecordBatch(ctx context.Context, driverID int, batch []ChangeParams) ([]models.DutyStatusChange, error)
	Current(ctx context.Context, driverID int, at time.Time) (models.DutyStatus, error)
	History(ctx context.Context, driverID int, f ChangeFilter) ([]models.DutyStatusChange, error)
}

// Compliance exposes the derived remaining-hours budget (read-only).
type Compliance interface {
	Budget(ctx context.Context, driverID int, now time.Time) (hos.Budget, error)
}

// LogSheets manages operating periods and the daily log grid.
type LogSheets interface {
	Start(ctx context.Context, driverID int, p StartSheetParams) (models.LogSheet, error)
	Close(ctx context.Context, driverID int, p CloseSheetParams) (models.LogSheet, error)
	Active(ctx context.Context, driverID int) (models.LogSheet, error)
	List(ctx context.Context, driverID int, f SheetFilter) ([]models.LogSheet, error)
	Timeline(ctx context.Context, driverID int, sheetID string, date time.Time) (hos.DailyTimeline, error)
	AddRemark(ctx context.Context, driverID int, sheetID string, r models.Remark) error
}

// TripPlanner plans compliant stop lists and tracks their execution.
type TripPlanner interface {
	Plan(ctx context.Context, driverID int, p PlanParams) (hos.Plan, error)
	Stops(ctx context.Context, driverID int) ([]models.Stop, error)
	Arrive(ctx context.Context, driverID int, stopID string, at time.Time) (models.Stop, error)
	Depart(ctx context.Context, driverID int, stopID string, at time.Time) (models.Stop, error)
	Skip(ctx context.Context, driverID int, stopID string) (models.Stop, error)
	RemoveStop(ctx context.Context, driverID int, stopID string) error
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	DutyLog
	Compliance
	LogSheets
	TripPlanner
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository) *Service {
	compliance := NewComplianceService(repos.Sheets, repos.Changes)
	dutyLog := NewDutyLogService(repos.Sheets, repos.Changes)
	return &Service{
		DutyLog:       dutyLog,
		Compliance:    compliance,
		LogSheets:     NewLogSheetService(repos.Sheets, repos.Changes),
		TripPlanner:   NewTripService(repos.Sheets, repos.Stops, compliance, dutyLog),
		Authorization: NewAuthService(repos.Auth),
	}
}

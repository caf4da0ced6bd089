package repository

import (
	"context"
	"database/sql"
	"time"

	"trip_logger/internal/models"
	"trip_logger/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Driver, error)
}

// SheetRepo persists log sheets and their remarks. Loads return a
// zero-value sheet (empty ID) when nothing matches.
type SheetRepo interface {
	Create(ctx context.Context, s models.LogSheet) error
	GetByID(ctx context.Context, id string) (models.LogSheet, error)
	GetActive(ctx context.Context, driverID int) (models.LogSheet, error)
	Close(ctx context.Context, id string, endTime time.Time, endLocation string, endCycleHours float64) error
	List(ctx context.Context, driverID int, from, to time.Time) ([]models.LogSheet, error)
	AddRemark(ctx context.Context, sheetID string, r models.Remark) error
	ListRemarks(ctx context.Context, sheetID string) ([]models.Remark, error)
}

// ChangeRepo is the append-only duty-status history.
type ChangeRepo interface {
	Append(ctx context.Context, c models.DutyStatusChange) error
	ListBySheet(ctx context.Context, sheetID string) ([]models.DutyStatusChange, error)
	ListByRange(ctx context.Context, sheetID string, from, to time.Time) ([]models.DutyStatusChange, error)
}

// StopRepo persists planned stops and their execution state.
type StopRepo interface {
	SavePlan(ctx context.Context, sheetID string, stops []models.Stop) error
	GetByID(ctx context.Context, id string) (models.Stop, error)
	ListBySheet(ctx context.Context, sheetID string) ([]models.Stop, error)
	UpdateExecution(ctx context.Context, id, status string, arrival, departure *time.Time) error
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	Sheets  SheetRepo
	Changes ChangeRepo
	Stops   StopRepo
	Auth    Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Sheets:  NewSheetSQLite(sqlDB),
		Changes: NewChangeSQLite(sqlDB),
		Stops:   NewStopSQLite(sqlDB),
		Auth:    NewDriverRepository(sqlDB),
	}
}

// InitDB forwards to the db package so callers wire one import.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

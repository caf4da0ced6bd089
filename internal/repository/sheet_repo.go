package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"trip_logger/internal/models"

	"github.com/google/uuid"
)

type SheetSQLite struct {
	db *sql.DB
}

func NewSheetSQLite(db *sql.DB) *SheetSQLite {
	return &SheetSQLite{db: db}
}

var _ SheetRepo = (*SheetSQLite)(nil)

const (
	insertSheetSQL = `
		INSERT INTO log_sheets
			(id, driver_id, start_time, end_time, start_location, end_location,
			 start_cycle_hours, end_cycle_hours, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectSheetSQL = `
		SELECT id, driver_id, start_time, end_time, start_location, end_location,
		       start_cycle_hours, end_cycle_hours, status
		FROM log_sheets
	`

	closeSheetSQL = `
		UPDATE log_sheets
		SET end_time = ?, end_location = ?, end_cycle_hours = ?, status = ?
		WHERE id = ?
	`

	insertRemarkSQL  = `INSERT INTO remarks (sheet_id, time, location) VALUES (?, ?, ?)`
	selectRemarksSQL = `SELECT time, location FROM remarks WHERE sheet_id = ? ORDER BY id ASC`
)

// Create inserts a new sheet. Missing ID or start time are filled in.
func (r *SheetSQLite) Create(ctx context.Context, s models.LogSheet) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.StartTime.IsZero() {
		s.StartTime = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = models.SheetActive
	}

	var endTime *string
	if s.EndTime != nil {
		formatted := s.EndTime.UTC().Format(sqliteTimeLayout)
		endTime = &formatted
	}

	_, err := r.db.ExecContext(ctx, insertSheetSQL,
		s.ID,
		s.DriverID,
		s.StartTime.UTC().Format(sqliteTimeLayout),
		endTime,
		s.StartLocation,
		nullIfEmpty(s.EndLocation),
		s.StartCycleHours,
		s.EndCycleHours,
		s.Status,
	)
	return err
}

// GetByID fetches one sheet. Returns a zero-value sheet when not found.
func (r *SheetSQLite) GetByID(ctx context.Context, id string) (models.LogSheet, error) {
	row := r.db.QueryRowContext(ctx, selectSheetSQL+" WHERE id = ?", id)
	return scanSheet(row)
}

// GetActive fetches the driver's single ACTIVE sheet, zero-value when none.
func (r *SheetSQLite) GetActive(ctx context.Context, driverID int) (models.LogSheet, error) {
	row := r.db.QueryRowContext(ctx,
		selectSheetSQL+" WHERE driver_id = ? AND status = ?", driverID, models.SheetActive)
	return scanSheet(row)
}

// Close completes a sheet: sets end fields and flips the status.
func (r *SheetSQLite) Close(ctx context.Context, id string, endTime time.Time, endLocation string, endCycleHours float64) error {
	res, err := r.db.ExecContext(ctx, closeSheetSQL,
		endTime.UTC().Format(sqliteTimeLayout),
		endLocation,
		endCycleHours,
		models.SheetCompleted,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("log sheet not found: " + id)
	}
	return nil
}

// List returns the driver's sheets whose start time falls inside
// [from, to] inclusive (zero bounds open), most recent last.
func (r *SheetSQLite) List(ctx context.Context, driverID int, from, to time.Time) ([]models.LogSheet, error) {
	q := selectSheetSQL + " WHERE driver_id = ?"
	args := []any{driverID}
	if !from.IsZero() {
		q += " AND start_time >= ?"
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		q += " AND start_time <= ?"
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	q += " ORDER BY start_time ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LogSheet
	for rows.Next() {
		s, err := scanSheetRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SheetSQLite) AddRemark(ctx context.Context, sheetID string, rm models.Remark) error {
	_, err := r.db.ExecContext(ctx, insertRemarkSQL, sheetID, rm.Time, rm.Location)
	return err
}

func (r *SheetSQLite) ListRemarks(ctx context.Context, sheetID string) ([]models.Remark, error) {
	rows, err := r.db.QueryContext(ctx, selectRemarksSQL, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Remark
	for rows.Next() {
		var rm models.Remark
		if err := rows.Scan(&rm.Time, &rm.Location); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSheet(row *sql.Row) (models.LogSheet, error) {
	s, err := scanSheetRows(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LogSheet{}, nil // no sheet yet
		}
		return models.LogSheet{}, err
	}
	return s, nil
}

func scanSheetRows(sc rowScanner) (models.LogSheet, error) {
	var (
		s           models.LogSheet
		endTime     sql.NullTime
		endLocation sql.NullString
		endCycle    sql.NullFloat64
	)
	if err := sc.Scan(
		&s.ID,
		&s.DriverID,
		&s.StartTime,
		&endTime,
		&s.StartLocation,
		&endLocation,
		&s.StartCycleHours,
		&endCycle,
		&s.Status,
	); err != nil {
		return models.LogSheet{}, err
	}
	s.StartTime = s.StartTime.UTC()
	if endTime.Valid {
		t := endTime.Time.UTC()
		s.EndTime = &t
	}
	s.EndLocation = endLocation.String
	if endCycle.Valid {
		v := endCycle.Float64
		s.EndCycleHours = &v
	}
	return s, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

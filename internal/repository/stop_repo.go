package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip_logger/internal/models"

	"github.com/google/uuid"

	"time"
)

type StopSQLite struct {
	db *sql.DB
}

func NewStopSQLite(db *sql.DB) *StopSQLite { return &StopSQLite{db: db} }

var _ StopRepo = (*StopSQLite)(nil)

const (
	deletePlanSQL = `DELETE FROM stops WHERE sheet_id = ?`

	insertStopSQL = `
		INSERT INTO stops
			(id, sheet_id, seq, type, label, lat, lon, arrival_time, departure_time,
			 duration_minutes, cycle_hours_at_stop, distance_from_last_stop, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectStopsSQL = `
		SELECT id, sheet_id, seq, type, label, lat, lon, arrival_time, departure_time,
		       duration_minutes, cycle_hours_at_stop, distance_from_last_stop, status
		FROM stops
	`

	updateStopExecutionSQL = `
		UPDATE stops SET status = ?, arrival_time = ?, departure_time = ? WHERE id = ?
	`

	deleteStopSQL = `DELETE FROM stops WHERE id = ?`
)

// SavePlan replaces the sheet's stop list atomically: planning is
// all-or-nothing, a half-written plan is worse than the old one.
func (r *StopSQLite) SavePlan(ctx context.Context, sheetID string, stops []models.Stop) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save plan: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deletePlanSQL, sheetID); err != nil {
		return fmt.Errorf("clear previous plan: %w", err)
	}

	for _, s := range stops {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insertStopSQL,
			s.ID,
			sheetID,
			s.Sequence,
			s.Type,
			s.Label,
			s.Location.Lat,
			s.Location.Lon,
			formatNullableTime(s.ArrivalTime),
			formatNullableTime(s.DepartureTime),
			s.DurationMinutes,
			s.CycleHoursAtStop,
			s.DistanceFromLastStop,
			s.Status,
		); err != nil {
			return fmt.Errorf("insert stop %d: %w", s.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save plan: %w", err)
	}
	return nil
}

// GetByID fetches one stop. Returns a zero-value stop when not found.
func (r *StopSQLite) GetByID(ctx context.Context, id string) (models.Stop, error) {
	row := r.db.QueryRowContext(ctx, selectStopsSQL+" WHERE id = ?", id)
	s, err := scanStop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Stop{}, nil
		}
		return models.Stop{}, err
	}
	return s, nil
}

// ListBySheet returns the plan in route order.
func (r *StopSQLite) ListBySheet(ctx context.Context, sheetID string) ([]models.Stop, error) {
	rows, err := r.db.QueryContext(ctx, selectStopsSQL+" WHERE sheet_id = ? ORDER BY seq ASC", sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Stop
	for rows.Next() {
		s, err := scanStop(rows)
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

// UpdateExecution records an arrival/departure/skip transition.
func (r *StopSQLite) UpdateExecution(ctx context.Context, id, status string, arrival, departure *time.Time) error {
	res, err := r.db.ExecContext(ctx, updateStopExecutionSQL,
		status, formatNullableTime(arrival), formatNullableTime(departure), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("stop not found: " + id)
	}
	return nil
}

// Delete removes a stop (user-initiated removal of a pending rest/fuel stop).
func (r *StopSQLite) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteStopSQL, id)
	return err
}

func scanStop(sc rowScanner) (models.Stop, error) {
	var (
		s         models.Stop
		label     sql.NullString
		arrival   sql.NullTime
		departure sql.NullTime
	)
	if err := sc.Scan(
		&s.ID,
		&s.SheetID,
		&s.Sequence,
		&s.Type,
		&label,
		&s.Location.Lat,
		&s.Location.Lon,
		&arrival,
		&departure,
		&s.DurationMinutes,
		&s.CycleHoursAtStop,
		&s.DistanceFromLastStop,
		&s.Status,
	); err != nil {
		return models.Stop{}, err
	}
	s.Label = label.String
	if arrival.Valid {
		t := arrival.Time.UTC()
		s.ArrivalTime = &t
	}
	if departure.Valid {
		t := departure.Time.UTC()
		s.DepartureTime = &t
	}
	return s, nil
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(sqliteTimeLayout)
	return &formatted
}

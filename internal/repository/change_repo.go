package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"trip_logger/internal/models"

	"github.com/google/uuid"
)

type ChangeSQLite struct {
	db *sql.DB
}

func NewChangeSQLite(db *sql.DB) *ChangeSQLite { return &ChangeSQLite{db: db} }

var _ ChangeRepo = (*ChangeSQLite)(nil)

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
const sqliteTimeLayout = "2006-01-02 15:04:05"

const (
	insertChangeSQL = `
		INSERT INTO duty_status_changes (id, sheet_id, ts, status, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectChangesSQL = `
		SELECT id, sheet_id, ts, status, lat, lon
		FROM duty_status_changes
	`
)

// Append inserts a new change. Missing ID or timestamp are filled in.
func (r *ChangeSQLite) Append(ctx context.Context, c models.DutyStatusChange) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	} else {
		c.Timestamp = c.Timestamp.UTC()
	}

	var lat, lon *float64
	if c.Location != nil {
		lat, lon = &c.Location.Lat, &c.Location.Lon
	}

	_, err := r.db.ExecContext(ctx, insertChangeSQL,
		c.ID,
		c.SheetID,
		c.Timestamp.Format(sqliteTimeLayout),
		c.Status.String(),
		lat,
		lon,
	)
	return err
}

// ListBySheet returns the full history for a sheet ordered by timestamp,
// insertion order breaking ties.
func (r *ChangeSQLite) ListBySheet(ctx context.Context, sheetID string) ([]models.DutyStatusChange, error) {
	return r.list(ctx, sheetID, time.Time{}, time.Time{})
}

// ListByRange returns changes for a sheet inside [from, to] inclusive;
// zero bounds are open.
func (r *ChangeSQLite) ListByRange(ctx context.Context, sheetID string, from, to time.Time) ([]models.DutyStatusChange, error) {
	return r.list(ctx, sheetID, from, to)
}

func (r *ChangeSQLite) list(ctx context.Context, sheetID string, from, to time.Time) ([]models.DutyStatusChange, error) {
	conds := []string{"sheet_id = ?"}
	args := []any{sheetID}

	if !from.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "ts <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}

	q := selectChangesSQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY ts ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DutyStatusChange, 0, 64)
	for rows.Next() {
		var (
			c         models.DutyStatusChange
			rawStatus string
			lat, lon  sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.SheetID, &c.Timestamp, &rawStatus, &lat, &lon); err != nil {
			return nil, err
		}
		c.Timestamp = c.Timestamp.UTC()
		status, err := models.ParseDutyStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		c.Status = status
		if lat.Valid && lon.Valid {
			c.Location = &models.LatLon{Lat: lat.Float64, Lon: lon.Float64}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

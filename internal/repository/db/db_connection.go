package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaDrivers = `
CREATE TABLE IF NOT EXISTS drivers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

const schemaLogSheets = `
CREATE TABLE IF NOT EXISTS log_sheets (
    id TEXT PRIMARY KEY,
    driver_id INTEGER NOT NULL REFERENCES drivers(id),
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP,
    start_location TEXT NOT NULL,
    end_location TEXT,
    start_cycle_hours REAL NOT NULL DEFAULT 0,
    end_cycle_hours REAL,
    status TEXT NOT NULL
);
`

// One active sheet per driver, enforced at the schema level.
const schemaActiveSheetIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_log_sheets_active
ON log_sheets (driver_id) WHERE status = 'ACTIVE';
`

const schemaDutyStatusChanges = `
CREATE TABLE IF NOT EXISTS duty_status_changes (
    id TEXT PRIMARY KEY,
    sheet_id TEXT NOT NULL REFERENCES log_sheets(id),
    ts TIMESTAMP NOT NULL,
    status TEXT NOT NULL,
    lat REAL,
    lon REAL
);
`

const schemaRemarks = `
CREATE TABLE IF NOT EXISTS remarks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sheet_id TEXT NOT NULL REFERENCES log_sheets(id),
    time TEXT NOT NULL,
    location TEXT NOT NULL
);
`

const schemaStops = `
CREATE TABLE IF NOT EXISTS stops (
    id TEXT PRIMARY KEY,
    sheet_id TEXT NOT NULL REFERENCES log_sheets(id),
    seq INTEGER NOT NULL,
    type TEXT NOT NULL,
    label TEXT,
    lat REAL NOT NULL,
    lon REAL NOT NULL,
    arrival_time TIMESTAMP,
    departure_time TIMESTAMP,
    duration_minutes INTEGER NOT NULL,
    cycle_hours_at_stop REAL NOT NULL,
    distance_from_last_stop REAL NOT NULL,
    status TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaDrivers,
		schemaLogSheets,
		schemaActiveSheetIndex,
		schemaDutyStatusChanges,
		schemaRemarks,
		schemaStops,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

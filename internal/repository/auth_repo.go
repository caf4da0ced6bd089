package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"trip_logger/internal/models"
)

type DriverRepository struct {
	db *sql.DB
}

func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*DriverRepository)(nil)

const (
	insertDriverSQL           = `INSERT INTO drivers (username, password_hash) VALUES (?, ?)`
	selectDriverByUsernameSQL = `SELECT id, username, password_hash FROM drivers WHERE username = ?`
)

// Create inserts a new driver account and returns its ID.
func (r *DriverRepository) Create(username, passwordHash string) (int, error) {
	res, err := r.db.Exec(insertDriverSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert driver %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for driver %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a driver by username. Returns (nil, nil) if not found.
func (r *DriverRepository) GetByUsername(username string) (*models.Driver, error) {
	var d models.Driver
	err := r.db.QueryRow(selectDriverByUsernameSQL, username).Scan(&d.ID, &d.Username, &d.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select driver %q: %w", username, err)
	}
	return &d, nil
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// DutyStatus is one of the four FMCSA duty statuses. Exactly one status is
// in effect at any instant.
type DutyStatus int

const (
	OffDuty DutyStatus = iota
	SleeperBerth
	Driving
	OnDuty
)

// Wire names used in JSON payloads and in the database.
const (
	offDutyName      = "off_duty"
	sleeperBerthName = "sleeper_berth"
	drivingName      = "driving"
	onDutyName       = "on_duty"
)

func (s DutyStatus) String() string {
	switch s {
	case OffDuty:
		return offDutyName
	case SleeperBerth:
		return sleeperBerthName
	case Driving:
		return drivingName
	case OnDuty:
		return onDutyName
	default:
		return fmt.Sprintf("duty_status(%d)", int(s))
	}
}

// ChartRow returns the fixed row a status occupies on the log grid
// (OffDuty=4, SleeperBerth=3, Driving=2, OnDuty=1). Layout only; carries
// no regulatory meaning.
func (s DutyStatus) ChartRow() int {
	switch s {
	case OffDuty:
		return 4
	case SleeperBerth:
		return 3
	case Driving:
		return 2
	default:
		return 1
	}
}

// CountsAsOnDuty reports whether hours in this status accrue toward the
// 14-hour daily window and the rolling cycle.
func (s DutyStatus) CountsAsOnDuty() bool {
	return s == Driving || s == OnDuty
}

// ParseDutyStatus accepts the canonical wire names plus the camel-case and
// spaced variants that appeared in older clients ("onDuty", "on duty").
func ParseDutyStatus(raw string) (DutyStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case offDutyName, "offduty":
		return OffDuty, nil
	case sleeperBerthName, "sleeper", "sleeperberth":
		return SleeperBerth, nil
	case drivingName:
		return Driving, nil
	case onDutyName, "onduty":
		return OnDuty, nil
	}
	return OffDuty, fmt.Errorf("unknown duty status %q", raw)
}

// MarshalText lets JSON encode DutyStatus values and map keys by wire name.
func (s DutyStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DutyStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseDutyStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DutyStatusChange is a single immutable entry in a sheet's status history.
type DutyStatusChange struct {
	ID        string     `json:"id,omitempty"`
	SheetID   string     `json:"sheet_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Status    DutyStatus `json:"status"`
	Location  *LatLon    `json:"location,omitempty"`
}

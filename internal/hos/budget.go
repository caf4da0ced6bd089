package hos

import (
	"time"

	"trip_logger/internal/models"
)

// FMCSA property-carrying limits.
const (
	MaxDrivingHoursPerDay  = 11.0
	MaxOnDutyHoursPerDay   = 14.0
	MaxCycleHours          = 70.0
	CycleWindowDays        = 8
	BreakAfterDrivingHours = 8.0
	MinBreakMinutes        = 30
)

// Budget is the derived remaining-hours snapshot. Never persisted;
// recomputed from the ledger on every read.
type Budget struct {
	DrivingHoursToday       float64  `json:"driving_hours_today"`
	OnDutyHoursToday        float64  `json:"on_duty_hours_today"`
	CycleHours8Day          float64  `json:"cycle_hours_8day"`
	HoursUntilBreakRequired float64  `json:"hours_until_break_required"`
	Warnings                []string `json:"warnings,omitempty"`
}

// Remaining-hour accessors, clamped at zero.
func (b Budget) DrivingHoursRemaining() float64 {
	return clampNonNegative(MaxDrivingHoursPerDay - b.DrivingHoursToday)
}

func (b Budget) OnDutyHoursRemaining() float64 {
	return clampNonNegative(MaxOnDutyHoursPerDay - b.OnDutyHoursToday)
}

func (b Budget) CycleHoursRemaining() float64 {
	return clampNonNegative(MaxCycleHours - b.CycleHours8Day)
}

// DrivingLimitReached reports whether further driving is forbidden.
// Hitting the boundary exactly counts as at-limit.
func (b Budget) DrivingLimitReached() bool { return b.DrivingHoursToday >= MaxDrivingHoursPerDay }

func (b Budget) OnDutyLimitReached() bool { return b.OnDutyHoursToday >= MaxOnDutyHoursPerDay }

func (b Budget) CycleLimitReached() bool { return b.CycleHours8Day >= MaxCycleHours }

// BreakDue reports whether the 30-minute break is due now.
func (b Budget) BreakDue() bool { return b.HoursUntilBreakRequired <= 0 }

// EvalInput carries the evaluation window for one active sheet.
type EvalInput struct {
	// DayStart is the start of the current duty day: the active sheet's
	// start time, not midnight.
	DayStart time.Time
	Now      time.Time
	// PriorCycleHours is the on-duty-equivalent total accrued inside the
	// trailing cycle window before DayStart (completed sheets plus any
	// carried start_cycle_hours).
	PriorCycleHours float64
}

// Evaluate derives the budget from a ledger snapshot. Pure; malformed
// inputs (clock skew, negative carries) are clamped to zero and reported
// via Budget.Warnings rather than raised.
func Evaluate(l *Ledger, in EvalInput) Budget {
	var b Budget

	now := in.Now
	if now.Before(in.DayStart) {
		b.Warnings = append(b.Warnings, "evaluation time precedes duty day start; window clamped")
		now = in.DayStart
	}

	byStatus := l.HoursByStatus(in.DayStart, now)
	b.DrivingHoursToday = byStatus[models.Driving].Hours()
	b.OnDutyHoursToday = b.DrivingHoursToday + byStatus[models.OnDuty].Hours()

	prior := in.PriorCycleHours
	if prior < 0 {
		b.Warnings = append(b.Warnings, "negative carried cycle hours; clamped to zero")
		prior = 0
	}
	b.CycleHours8Day = prior + b.OnDutyHoursToday

	b.HoursUntilBreakRequired = clampNonNegative(
		BreakAfterDrivingHours - drivingSinceLastBreak(l, in.DayStart, now))

	return b
}

// drivingSinceLastBreak accumulates driving hours since the end of the last
// qualifying rest: an off-duty or sleeper-berth run of at least 30 minutes
// inside [dayStart, now).
func drivingSinceLastBreak(l *Ledger, dayStart, now time.Time) float64 {
	minBreak := time.Duration(MinBreakMinutes) * time.Minute
	driving := 0.0
	for _, seg := range l.Segments(dayStart, now) {
		switch {
		case seg.Status == models.Driving:
			driving += seg.End.Sub(seg.Start).Hours()
		case !seg.Status.CountsAsOnDuty() && seg.End.Sub(seg.Start) >= minBreak:
			driving = 0
		}
	}
	return driving
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

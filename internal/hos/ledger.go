package hos

import (
	"errors"
	"sort"
	"time"

	"trip_logger/internal/models"
)

// DefaultStatus is the status in effect before any change has been
// recorded. Uniform across the engine.
const DefaultStatus = models.OffDuty

// ErrOutOfOrderEvent is returned when a change carries a timestamp earlier
// than the last recorded change. Recoverable: the caller may resort the
// batch (SortChanges) and retry.
var ErrOutOfOrderEvent = errors.New("duty status change out of order")

// Ledger is the append-only ordered history of duty-status changes for one
// log period. It owns no I/O and no goroutines; one instance belongs to one
// trip session.
type Ledger struct {
	changes []models.DutyStatusChange
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// SortChanges stable-sorts a batch by timestamp. Ties keep insertion order.
func SortChanges(changes []models.DutyStatusChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Timestamp.Before(changes[j].Timestamp)
	})
}

// LedgerOf builds a ledger from a possibly unsorted batch. The input is
// sorted first and consecutive duplicate statuses are collapsed.
func LedgerOf(changes []models.DutyStatusChange) *Ledger {
	batch := make([]models.DutyStatusChange, len(changes))
	copy(batch, changes)
	SortChanges(batch)

	l := NewLedger()
	for _, c := range batch {
		// Cannot fail: the batch is sorted.
		_ = l.Record(c)
	}
	return l
}

// Record appends a change. A timestamp earlier than the last recorded
// change yields ErrOutOfOrderEvent; equal timestamps are accepted with
// insertion order as the tie-break. A change whose status equals the
// current one is collapsed: no append, no error.
func (l *Ledger) Record(c models.DutyStatusChange) error {
	if n := len(l.changes); n > 0 {
		last := l.changes[n-1]
		if c.Timestamp.Before(last.Timestamp) {
			return ErrOutOfOrderEvent
		}
		if c.Status == last.Status {
			return nil
		}
	}
	l.changes = append(l.changes, c)
	return nil
}

// Len returns the number of recorded changes.
func (l *Ledger) Len() int { return len(l.changes) }

// Changes returns a copy of the recorded history.
func (l *Ledger) Changes() []models.DutyStatusChange {
	out := make([]models.DutyStatusChange, len(l.changes))
	copy(out, l.changes)
	return out
}

// Last returns the most recent change, if any.
func (l *Ledger) Last() (models.DutyStatusChange, bool) {
	if len(l.changes) == 0 {
		return models.DutyStatusChange{}, false
	}
	return l.changes[len(l.changes)-1], true
}

// StatusAt returns the status in effect at t: the status of the latest
// change with timestamp <= t, or DefaultStatus if none.
func (l *Ledger) StatusAt(t time.Time) models.DutyStatus {
	// First change strictly after t; the one before it governs.
	idx := sort.Search(len(l.changes), func(i int) bool {
		return l.changes[i].Timestamp.After(t)
	})
	if idx == 0 {
		return DefaultStatus
	}
	return l.changes[idx-1].Status
}

// Segment is a maximal run of one status inside a query interval.
type Segment struct {
	Start  time.Time
	End    time.Time
	Status models.DutyStatus
}

// Segments splits the half-open interval [t0, t1) into contiguous
// constant-status runs. Returns nil when t1 <= t0.
func (l *Ledger) Segments(t0, t1 time.Time) []Segment {
	if !t1.After(t0) {
		return nil
	}
	var segs []Segment
	cursor := t0
	status := l.StatusAt(t0)
	for _, c := range l.changes {
		if !c.Timestamp.After(t0) {
			continue
		}
		if !c.Timestamp.Before(t1) {
			break
		}
		if c.Timestamp.After(cursor) {
			segs = append(segs, Segment{Start: cursor, End: c.Timestamp, Status: status})
			cursor = c.Timestamp
		}
		status = c.Status
	}
	segs = append(segs, Segment{Start: cursor, End: t1, Status: status})
	return segs
}

// HoursByStatus integrates status occupancy across [t0, t1), attributing
// partial hours at the boundaries proportionally.
func (l *Ledger) HoursByStatus(t0, t1 time.Time) map[models.DutyStatus]time.Duration {
	out := make(map[models.DutyStatus]time.Duration, 4)
	for _, seg := range l.Segments(t0, t1) {
		out[seg.Status] += seg.End.Sub(seg.Start)
	}
	return out
}

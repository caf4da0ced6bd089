package hos

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trip_logger/internal/models"
)

// TimelineSlots is the number of points on the daily grid: hours 0..24
// inclusive, slot 24 being the midnight wrap.
const TimelineSlots = 25

// TimelineSlot is one hourly point on the log grid.
type TimelineSlot struct {
	Hour   int               `json:"hour"`
	Label  string            `json:"label"`
	Status models.DutyStatus `json:"status"`
}

// TimelineRemark is a remark resolved to its hour label for grid placement.
type TimelineRemark struct {
	HourLabel string `json:"hour_label"`
	Time      string `json:"time"`
	Location  string `json:"location"`
}

// DailyTimeline is the render-ready view of one calendar day: 25 hourly
// slots, placed remarks, and per-status slot counts for the summary panel.
type DailyTimeline struct {
	Date     string                    `json:"date"`
	Slots    []TimelineSlot            `json:"slots"`
	Remarks  []TimelineRemark          `json:"remarks"`
	Totals   map[models.DutyStatus]int `json:"totals"`
	Warnings []string                  `json:"warnings,omitempty"`
}

// BuildDailyTimeline converts one calendar day's changes and remarks into
// the fixed hourly grid. Changes are sorted first; the slot at each
// change's hour and every later slot take that status, so multiple changes
// within one clock hour collapse to the latest. Slot 0 carries the status
// in effect at midnight (OffDuty when the day has no prior history).
func BuildDailyTimeline(date time.Time, changes []models.DutyStatusChange, remarks []models.Remark) DailyTimeline {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	ledger := LedgerOf(changes)

	tl := DailyTimeline{
		Date:   dayStart.Format("2006-01-02"),
		Slots:  make([]TimelineSlot, TimelineSlots),
		Totals: make(map[models.DutyStatus]int, 4),
	}

	carried := ledger.StatusAt(dayStart)
	for h := range tl.Slots {
		tl.Slots[h] = TimelineSlot{Hour: h, Label: hourLabel(h), Status: carried}
	}

	for _, c := range ledger.Changes() {
		if c.Timestamp.Before(dayStart) || !c.Timestamp.Before(dayEnd) {
			continue
		}
		for h := c.Timestamp.In(dayStart.Location()).Hour(); h < TimelineSlots; h++ {
			tl.Slots[h].Status = c.Status
		}
	}

	// Totals count slots 0..23 only; the midnight wrap is display-only.
	for h := 0; h < TimelineSlots-1; h++ {
		tl.Totals[tl.Slots[h].Status]++
	}

	tl.Remarks, tl.Warnings = placeRemarks(remarks)
	return tl
}

// placeRemarks maps each well-formed remark to its hour label and drops the
// rest, reporting them as warnings.
func placeRemarks(remarks []models.Remark) ([]TimelineRemark, []string) {
	var (
		placed   []TimelineRemark
		warnings []string
	)
	for _, r := range remarks {
		if r.Time == "" || r.Location == "" {
			continue
		}
		hour, err := parseRemarkHour(r.Time)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("malformed remark %q dropped: %v", r.Time, err))
			continue
		}
		placed = append(placed, TimelineRemark{
			HourLabel: hourLabel(hour),
			Time:      r.Time,
			Location:  r.Location,
		})
	}
	return placed, warnings
}

// parseRemarkHour reads the hour from an "HH:MM..." prefixed time string.
func parseRemarkHour(s string) (int, error) {
	head, _, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("missing ':' separator")
	}
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("bad hour: %w", err)
	}
	if hour < 0 || hour > 24 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	return hour, nil
}

// hourLabel renders the grid heading for an hour: Midnight at both ends of
// the day, Noon in the middle, the plain number otherwise.
func hourLabel(h int) string {
	switch h {
	case 0, 24:
		return "Midnight"
	case 12:
		return "Noon"
	default:
		return strconv.Itoa(h)
	}
}

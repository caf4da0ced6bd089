package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trip_logger/internal/hos"
	"trip_logger/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusRecorded = "recorded"
	statusPlanned  = "planned"
	statusSkipped  = "skipped"
	statusRemoved  = "removed"

	errInvalidBodyPref = "invalid body: "

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps domain errors onto HTTP codes. Unknown errors
// become opaque 500s; domain errors carry their message through.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, "internal error", logKey, err, kv...)
		return
	}
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Infow(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrSheetNotFound),
		errors.Is(err, service.ErrStopNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoActiveSheet),
		errors.Is(err, service.ErrSheetAlreadyActive),
		errors.Is(err, service.ErrStopNotPending),
		errors.Is(err, service.ErrStopNotArrived),
		errors.Is(err, service.ErrStopNotRemovable):
		return http.StatusConflict
	case errors.Is(err, hos.ErrOutOfOrderEvent),
		errors.Is(err, service.ErrDrivingLimitReached):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

// parseRangeQuery reads optional from/to query params. A date-only 'to' is
// treated as end-of-day inclusive.
func parseRangeQuery(c *gin.Context) (from, to time.Time, ok bool) {
	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' time; use RFC3339 or YYYY-MM-DD"})
			return from, to, false
		}
		from = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' time; use RFC3339 or YYYY-MM-DD"})
			return from, to, false
		}
		if isDateOnly(qs) {
			t = t.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		to = t
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return from, to, false
	}
	return from, to, true
}

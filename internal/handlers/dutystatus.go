package handlers

import (
	"net/http"
	"time"

	"trip_logger/internal/models"
	"trip_logger/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTO for one duty-status transition.
type recordStatusRequest struct {
	// Timestamp of the transition; zero means now.
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status" binding:"required"` // off_duty | sleeper_berth | driving | on_duty
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
}

// RecordStatusRequest is an exported model for Swagger docs of the record payload.
type RecordStatusRequest struct {
	// Transition time, RFC3339. Empty means now.
	Timestamp string `json:"timestamp,omitempty" example:"2025-06-10T08:00:00Z"`
	// Status to enter. Allowed: off_duty, sleeper_berth, driving, on_duty
	Status string  `json:"status" example:"driving"`
	Lat    float64 `json:"lat,omitempty" example:"41.8781"`
	Lon    float64 `json:"lon,omitempty" example:"-87.6298"`
}

func (r recordStatusRequest) toParams() (service.ChangeParams, error) {
	status, err := models.ParseDutyStatus(r.Status)
	if err != nil {
		return service.ChangeParams{}, err
	}
	p := service.ChangeParams{Timestamp: r.Timestamp, Status: status}
	if r.Lat != nil && r.Lon != nil {
		p.Location = &models.LatLon{Lat: *r.Lat, Lon: *r.Lon}
	}
	return p, nil
}

// @Summary      Record duty-status change
// @Description  Appends one transition to the active log sheet. Out-of-order timestamps and driving past the daily limit are refused.
// @Tags         duty-status
// @Accept       json
// @Produce      json
// @Param        body  body   RecordStatusRequest  true  "Transition payload"
// @Success      200   {object}  map[string]interface{}  "status, change"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/duty-status [post]
// @Security     BearerAuth
func (h *Handler) recordStatus(c *gin.Context) {
	var req recordStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := h.services.DutyLog.Record(c.Request.Context(), driverID(c), params)
	if err != nil {
		h.respondServiceError(c, "duty_status_record_failed", err, "status", req.Status)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRecorded, "change": change})
}

// @Summary      Record duty-status batch
// @Description  Records several transitions at once. The batch is sorted by timestamp before recording; on failure the already-recorded prefix is returned.
// @Tags         duty-status
// @Accept       json
// @Produce      json
// @Param        body  body   []RecordStatusRequest  true  "Transitions"
// @Success      200   {object}  map[string]interface{}  "status, changes"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Router       /api/v1/duty-status/batch [post]
// @Security     BearerAuth
func (h *Handler) recordStatusBatch(c *gin.Context) {
	var reqs []recordStatusRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	batch := make([]service.ChangeParams, 0, len(reqs))
	for _, r := range reqs {
		p, err := r.toParams()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		batch = append(batch, p)
	}

	recorded, err := h.services.DutyLog.RecordBatch(c.Request.Context(), driverID(c), batch)
	if err != nil {
		code := statusForError(err)
		if h.log != nil {
			h.log.Infow("duty_status_batch_failed", "err", err, "recorded", len(recorded))
		}
		c.JSON(code, gin.H{"error": err.Error(), "changes": recorded})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRecorded, "changes": recorded})
}

// @Summary      Current duty status
// @Tags         duty-status
// @Produce      json
// @Param        at  query   string  false  "Point in time (RFC3339); defaults to now"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/duty-status/current [get]
// @Security     BearerAuth
func (h *Handler) currentStatus(c *gin.Context) {
	var at time.Time
	if qs := c.Query("at"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'at' time; use RFC3339 or YYYY-MM-DD"})
			return
		}
		at = t
	}

	status, err := h.services.DutyLog.Current(c.Request.Context(), driverID(c), at)
	if err != nil {
		h.respondServiceError(c, "duty_status_current_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}

// @Summary      Duty-status history
// @Description  Lists the active sheet's transitions, optionally filtered by time range. A date-only 'to' is treated as end-of-day inclusive.
// @Tags         duty-status
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-06-01)
// @Param        to    query   string  false  "End of range; date-only treated as end of day"  example(2025-06-30)
// @Success      200   {object}  map[string]interface{}  "count, changes"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/duty-status/history [get]
// @Security     BearerAuth
func (h *Handler) statusHistory(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	changes, err := h.services.DutyLog.History(c.Request.Context(), driverID(c), service.ChangeFilter{
		From: from,
		To:   to,
	})
	if err != nil {
		h.respondServiceError(c, "duty_status_history_failed", err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(changes),
		"changes": changes,
	})
}

// @Summary      Remaining-hours budget
// @Description  Derived snapshot of the daily driving, daily on-duty, cycle, and break budgets.
// @Tags         hos
// @Produce      json
// @Param        at  query   string  false  "Evaluation time (RFC3339); defaults to now"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hos/budget [get]
// @Security     BearerAuth
func (h *Handler) getBudget(c *gin.Context) {
	var at time.Time
	if qs := c.Query("at"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'at' time; use RFC3339 or YYYY-MM-DD"})
			return
		}
		at = t
	}

	budget, err := h.services.Compliance.Budget(c.Request.Context(), driverID(c), at)
	if err != nil {
		h.respondServiceError(c, "hos_budget_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"budget":                  budget,
		"driving_hours_remaining": budget.DrivingHoursRemaining(),
		"on_duty_hours_remaining": budget.OnDutyHoursRemaining(),
		"cycle_hours_remaining":   budget.CycleHoursRemaining(),
	})
}

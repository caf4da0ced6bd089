package handlers

import (
	"net/http"
	"time"

	"trip_logger/internal/models"
	"trip_logger/internal/service"

	"github.com/gin-gonic/gin"
)

// StartSheetRequest is the payload for opening a log sheet.
type StartSheetRequest struct {
	// Start of the operating period, RFC3339. Empty means now.
	StartTime time.Time `json:"start_time,omitempty"`
	// Free-text start location, e.g. "Chicago, IL"
	StartLocation string `json:"start_location" example:"Chicago, IL"`
	// On-duty hours already used in the trailing 8-day cycle
	StartCycleHours float64 `json:"start_cycle_hours" example:"12.5"`
}

// CloseSheetRequest is the payload for completing the active sheet.
type CloseSheetRequest struct {
	EndTime     time.Time `json:"end_time,omitempty"`
	EndLocation string    `json:"end_location" example:"Des Moines, IA"`
}

// RemarkRequest attaches a note to a sheet's daily grid.
type RemarkRequest struct {
	// Clock time of the remark, "HH:MM"
	Time     string `json:"time" binding:"required" example:"10:30"`
	Location string `json:"location" binding:"required" example:"Gary, IN"`
}

// @Summary      Start log sheet
// @Description  Opens a new operating period. Only one sheet may be active per driver.
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        body  body   StartSheetRequest  true  "Sheet payload"
// @Success      200   {object}  map[string]interface{}  "sheet"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/sheets [post]
// @Security     BearerAuth
func (h *Handler) startSheet(c *gin.Context) {
	var req StartSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	sheet, err := h.services.LogSheets.Start(c.Request.Context(), driverID(c), service.StartSheetParams{
		StartTime:       req.StartTime,
		StartLocation:   req.StartLocation,
		StartCycleHours: req.StartCycleHours,
	})
	if err != nil {
		h.respondServiceError(c, "sheet_start_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheet": sheet})
}

// @Summary      Close log sheet
// @Description  Completes the active sheet. End cycle hours are derived from the recorded history.
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        body  body   CloseSheetRequest  true  "Close payload"
// @Success      200   {object}  map[string]interface{}  "sheet"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/sheets/close [post]
// @Security     BearerAuth
func (h *Handler) closeSheet(c *gin.Context) {
	var req CloseSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	sheet, err := h.services.LogSheets.Close(c.Request.Context(), driverID(c), service.CloseSheetParams{
		EndTime:     req.EndTime,
		EndLocation: req.EndLocation,
	})
	if err != nil {
		h.respondServiceError(c, "sheet_close_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheet": sheet})
}

// @Summary      Active log sheet
// @Tags         sheets
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "sheet"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/sheets/active [get]
// @Security     BearerAuth
func (h *Handler) activeSheet(c *gin.Context) {
	sheet, err := h.services.LogSheets.Active(c.Request.Context(), driverID(c))
	if err != nil {
		h.respondServiceError(c, "sheet_active_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheet": sheet})
}

// @Summary      List log sheets
// @Description  Lists the driver's sheets, optionally filtered by start time. A date-only 'to' is treated as end-of-day inclusive.
// @Tags         sheets
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-06-01)
// @Param        to    query   string  false  "End of range; date-only treated as end of day"  example(2025-06-30)
// @Success      200   {object}  map[string]interface{}  "count, sheets"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/sheets [get]
// @Security     BearerAuth
func (h *Handler) listSheets(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	sheets, err := h.services.LogSheets.List(c.Request.Context(), driverID(c), service.SheetFilter{
		From: from,
		To:   to,
	})
	if err != nil {
		h.respondServiceError(c, "sheet_list_failed", err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(sheets),
		"sheets": sheets,
	})
}

// @Summary      Daily timeline
// @Description  Builds the 25-slot daily status grid for one calendar day of a sheet.
// @Tags         sheets
// @Produce      json
// @Param        id    path    string  true   "Sheet ID"
// @Param        date  query   string  false  "Calendar day (YYYY-MM-DD); defaults to today"
// @Success      200   {object}  map[string]interface{}  "timeline"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sheets/{id}/timeline [get]
// @Security     BearerAuth
func (h *Handler) sheetTimeline(c *gin.Context) {
	date := time.Now().UTC()
	if qs := c.Query("date"); qs != "" {
		t, err := time.Parse(layoutDate, qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'date'; use YYYY-MM-DD"})
			return
		}
		date = t
	}

	timeline, err := h.services.LogSheets.Timeline(c.Request.Context(), driverID(c), c.Param("id"), date)
	if err != nil {
		h.respondServiceError(c, "sheet_timeline_failed", err, "sheet_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}

// @Summary      Add remark
// @Tags         sheets
// @Accept       json
// @Produce      json
// @Param        id    path   string         true  "Sheet ID"
// @Param        body  body   RemarkRequest  true  "Remark payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sheets/{id}/remarks [post]
// @Security     BearerAuth
func (h *Handler) addRemark(c *gin.Context) {
	var req RemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	err := h.services.LogSheets.AddRemark(c.Request.Context(), driverID(c), c.Param("id"), models.Remark{
		Time:     req.Time,
		Location: req.Location,
	})
	if err != nil {
		h.respondServiceError(c, "sheet_add_remark_failed", err, "sheet_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

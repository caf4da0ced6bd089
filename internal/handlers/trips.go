package handlers

import (
	"net/http"
	"time"

	"trip_logger/internal/models"
	"trip_logger/internal/service"

	"github.com/gin-gonic/gin"
)

// RouteLegRequest is one drivable segment from the routing provider.
type RouteLegRequest struct {
	Lat           float64 `json:"lat" example:"41.5868"`
	Lon           float64 `json:"lon" example:"-93.6250"`
	Label         string  `json:"label" example:"Des Moines, IA"`
	DistanceMiles float64 `json:"distance_miles" example:"333"`
	DurationHours float64 `json:"duration_hours" example:"5"`
}

// PlanTripRequest is the payload for stop planning.
type PlanTripRequest struct {
	// Departure time, RFC3339. Empty means now.
	DepartAt    time.Time         `json:"depart_at,omitempty"`
	PickupLat   float64           `json:"pickup_lat" example:"41.8781"`
	PickupLon   float64           `json:"pickup_lon" example:"-87.6298"`
	PickupLabel string            `json:"pickup_label" example:"Chicago, IL"`
	Legs        []RouteLegRequest `json:"legs" binding:"required"`
	// Refuel interval override in miles; zero means the 1000-mile default.
	FuelIntervalMiles float64 `json:"fuel_interval_miles,omitempty"`
	// Suppress automatic fuel stops when the driver placed one manually.
	UserFuelStop bool `json:"user_fuel_stop,omitempty"`
}

// Stop execution payload; empty time means now.
type StopTimeRequest struct {
	At time.Time `json:"at,omitempty"`
}

// @Summary      Plan trip stops
// @Description  Runs the greedy stop planner against the driver's live budget and persists the resulting stop list for the active sheet.
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        body  body   PlanTripRequest  true  "Route payload"
// @Success      200   {object}  map[string]interface{}  "status, plan"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/trips/plan [post]
// @Security     BearerAuth
func (h *Handler) planTrip(c *gin.Context) {
	var req PlanTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	legs := make([]models.RouteLeg, 0, len(req.Legs))
	for _, l := range req.Legs {
		legs = append(legs, models.RouteLeg{
			EndLocation:   models.LatLon{Lat: l.Lat, Lon: l.Lon},
			Label:         l.Label,
			DistanceMiles: l.DistanceMiles,
			DurationHours: l.DurationHours,
		})
	}

	plan, err := h.services.TripPlanner.Plan(c.Request.Context(), driverID(c), service.PlanParams{
		DepartAt:          req.DepartAt,
		PickupLocation:    models.LatLon{Lat: req.PickupLat, Lon: req.PickupLon},
		PickupLabel:       req.PickupLabel,
		Legs:              legs,
		FuelIntervalMiles: req.FuelIntervalMiles,
		UserFuelStop:      req.UserFuelStop,
	})
	if err != nil {
		h.respondServiceError(c, "trip_plan_failed", err, "legs", len(req.Legs))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusPlanned, "plan": plan})
}

// @Summary      List planned stops
// @Tags         trips
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, stops"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/trips/stops [get]
// @Security     BearerAuth
func (h *Handler) listStops(c *gin.Context) {
	stops, err := h.services.TripPlanner.Stops(c.Request.Context(), driverID(c))
	if err != nil {
		h.respondServiceError(c, "trip_stops_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(stops),
		"stops": stops,
	})
}

// @Summary      Arrive at stop
// @Description  Confirms arrival at a pending stop and records the induced duty-status change.
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id    path   string           true   "Stop ID"
// @Param        body  body   StopTimeRequest  false  "Arrival time"
// @Success      200   {object}  map[string]interface{}  "stop"
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/stops/{id}/arrive [post]
// @Security     BearerAuth
func (h *Handler) arriveStop(c *gin.Context) {
	var req StopTimeRequest
	_ = c.ShouldBindJSON(&req) // body optional

	stop, err := h.services.TripPlanner.Arrive(c.Request.Context(), driverID(c), c.Param("id"), req.At)
	if err != nil {
		h.respondServiceError(c, "stop_arrive_failed", err, "stop_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stop": stop})
}

// @Summary      Depart from stop
// @Description  Records departure from a completed stop; the driver transitions back to driving (off duty after the final dropoff).
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id    path   string           true   "Stop ID"
// @Param        body  body   StopTimeRequest  false  "Departure time"
// @Success      200   {object}  map[string]interface{}  "stop"
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/stops/{id}/depart [post]
// @Security     BearerAuth
func (h *Handler) departStop(c *gin.Context) {
	var req StopTimeRequest
	_ = c.ShouldBindJSON(&req) // body optional

	stop, err := h.services.TripPlanner.Depart(c.Request.Context(), driverID(c), c.Param("id"), req.At)
	if err != nil {
		h.respondServiceError(c, "stop_depart_failed", err, "stop_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stop": stop})
}

// @Summary      Skip stop
// @Description  Marks a pending rest or fuel stop as skipped. Pickup and dropoff cannot be skipped.
// @Tags         trips
// @Produce      json
// @Param        id  path   string  true  "Stop ID"
// @Success      200  {object}  map[string]interface{}  "status, stop"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/stops/{id}/skip [post]
// @Security     BearerAuth
func (h *Handler) skipStop(c *gin.Context) {
	stop, err := h.services.TripPlanner.Skip(c.Request.Context(), driverID(c), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, "stop_skip_failed", err, "stop_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSkipped, "stop": stop})
}

// @Summary      Remove stop
// @Description  Deletes a pending rest or fuel stop from the plan.
// @Tags         trips
// @Produce      json
// @Param        id  path   string  true  "Stop ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/stops/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removeStop(c *gin.Context) {
	if err := h.services.TripPlanner.RemoveStop(c.Request.Context(), driverID(c), c.Param("id")); err != nil {
		h.respondServiceError(c, "stop_remove_failed", err, "stop_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRemoved})
}

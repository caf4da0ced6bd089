package handlers

import (
	"net/http"

	"trip_logger/internal/logger"
	"trip_logger/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// WebSocket budget stream (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.driverIdMiddleware)
	{
		h.registerSheetRoutes(api)
		h.registerDutyStatusRoutes(api)
		h.registerTripRoutes(api)
	}
}

func (h *Handler) registerSheetRoutes(api *gin.RouterGroup) {
	sheets := api.Group("/sheets")
	{
		sheets.POST("/", h.startSheet)
		sheets.POST("/close", h.closeSheet)
		sheets.GET("/active", h.activeSheet)
		sheets.GET("/", h.listSheets)
		// Query example: ?date=2025-06-10
		sheets.GET("/:id/timeline", h.sheetTimeline)
		sheets.POST("/:id/remarks", h.addRemark)
	}
}

func (h *Handler) registerDutyStatusRoutes(api *gin.RouterGroup) {
	duty := api.Group("/duty-status")
	{
		duty.POST("/", h.recordStatus)
		duty.POST("/batch", h.recordStatusBatch)
		duty.GET("/current", h.currentStatus)
		duty.GET("/history", h.statusHistory)
	}
	api.GET("/hos/budget", h.getBudget)
}

func (h *Handler) registerTripRoutes(api *gin.RouterGroup) {
	trips := api.Group("/trips")
	{
		trips.POST("/plan", h.planTrip)
		trips.GET("/stops", h.listStops)
	}
	stops := api.Group("/stops")
	{
		stops.POST("/:id/arrive", h.arriveStop)
		stops.POST("/:id/depart", h.departStop)
		stops.POST("/:id/skip", h.skipStop)
		stops.DELETE("/:id", h.removeStop)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

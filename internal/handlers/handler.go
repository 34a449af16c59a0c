package handlers

import (
	"net/http"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
}

type Option func(*Handler)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(hd *Handler) { hd.metrics = h }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

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
	api := r.Group("/api/v1", h.operatorIdMiddleware)
	{
		h.registerControllerRoutes(api)
		h.registerCircleRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerControllerRoutes(api *gin.RouterGroup) {
	ctl := api.Group("/controller")
	{
		ctl.GET("/state", h.getState)
		ctl.POST("/reset", h.resetSystem)
		ctl.POST("/defaults", h.loadDefaults)
		// Body example: {"count":3}
		ctl.POST("/zones/count", h.setZoneCount)
		// Body example: {"operation_date":0,"start_time":480,"duration_minutes":30}
		ctl.PUT("/zones/:sequence", h.configureZone)
		ctl.PUT("/rain/limit", h.setRainLimit)
		ctl.PUT("/rain/reading", h.setRainReading)
		ctl.PUT("/clock", h.setClock)
		ctl.POST("/schedule", h.runSchedule)
		ctl.GET("/schedule/latest", h.latestRun)
	}
}

func (h *Handler) registerCircleRoutes(api *gin.RouterGroup) {
	circles := api.Group("/circles")
	{
		circles.POST("/populate", h.populateCircles)
		circles.GET("", h.listCircles)
		circles.GET("/search", h.searchCircles)
		circles.GET("/extremes", h.circleExtremes)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

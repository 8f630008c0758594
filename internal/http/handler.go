package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"plaque-gateway/internal/assistant"
	"plaque-gateway/internal/config"
	"plaque-gateway/internal/service"
)

type Handler struct {
	vehicleService *service.VehicleService
	backendService *service.BackendService
	assistant      *assistant.Runner
	config         *config.Config
	log            zerolog.Logger
}

func NewHandler(
	vehicleService *service.VehicleService,
	backendService *service.BackendService,
	runner *assistant.Runner,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		vehicleService: vehicleService,
		backendService: backendService,
		assistant:      runner,
		config:         cfg,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.Use(authMiddleware)
	{
		// Vehicles
		api.GET("/vehicle/:plaque", h.getVehicle)
		api.GET("/vehicle/", h.getVehicle)
		api.POST("/vehicles/batch", h.getVehiclesBatch)
		api.POST("/vehicles/batch/export", h.exportVehiclesBatch)

		// Backend relay
		api.GET("/routes", h.listRoutes)
		api.GET("/routes/:id", h.getRoute)
		api.GET("/orders", h.listOrders)
		api.GET("/orders/:id", h.getOrder)
		api.GET("/users", h.listUsers)
		api.GET("/users/drivers", h.listDrivers)
		api.GET("/users/:id", h.getUser)
	}

	r.POST("/ask", authMiddleware, h.ask)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     "api-proxy",
		"backend_url": h.config.Backend.BaseURL,
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

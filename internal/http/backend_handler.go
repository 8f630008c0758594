package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plaque-gateway/internal/model"
	"plaque-gateway/internal/service"
)

func (h *Handler) listRoutes(c *gin.Context) { h.relay(c, model.ResourceRoutes) }
func (h *Handler) listOrders(c *gin.Context) { h.relay(c, model.ResourceOrders) }
func (h *Handler) listUsers(c *gin.Context)  { h.relay(c, model.ResourceUsers) }

func (h *Handler) getRoute(c *gin.Context) { h.findByID(c, model.ResourceRoutes) }
func (h *Handler) getOrder(c *gin.Context) { h.findByID(c, model.ResourceOrders) }
func (h *Handler) getUser(c *gin.Context)  { h.findByID(c, model.ResourceUsers) }

// relay answers with the backend status and body unchanged.
func (h *Handler) relay(c *gin.Context, resource model.Resource) {
	resp, err := h.backendService.List(c.Request.Context(), resource)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
}

func (h *Handler) findByID(c *gin.Context, resource model.Resource) {
	rec, err := h.backendService.FindByID(c.Request.Context(), resource, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(resource.Label()+" not found"))
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) listDrivers(c *gin.Context) {
	drivers, err := h.backendService.Drivers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

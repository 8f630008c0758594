package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"plaque-gateway/internal/export"
)

type batchRequest struct {
	Plaques []string `json:"plaques"`
}

func (h *Handler) getVehicle(c *gin.Context) {
	plate := c.Param("plaque")

	result, err := h.vehicleService.Lookup(c.Request.Context(), plate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) getVehiclesBatch(c *gin.Context) {
	plates, ok := h.bindBatch(c)
	if !ok {
		return
	}

	results, err := h.vehicleService.LookupBatch(c.Request.Context(), plates)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": results,
	})
}

func (h *Handler) exportVehiclesBatch(c *gin.Context) {
	plates, ok := h.bindBatch(c)
	if !ok {
		return
	}

	results, err := h.vehicleService.LookupBatch(c.Request.Context(), plates)
	if err != nil {
		h.handleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteVehicles(&buf, results); err != nil {
		h.log.Error().Err(err).Int("plates", len(plates)).Msg("failed to build vehicles workbook")
		c.JSON(http.StatusInternalServerError, errorResponse("failed to build workbook"))
		return
	}

	filename := fmt.Sprintf("vehicules-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// bindBatch decodes {"plaques": [...]} and rejects an empty list before any
// lookup is made.
func (h *Handler) bindBatch(c *gin.Context) ([]string, bool) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return nil, false
	}
	if len(req.Plaques) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Liste de plaques vide"))
		return nil, false
	}
	return req.Plaques, true
}

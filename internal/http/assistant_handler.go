package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plaque-gateway/internal/assistant"
)

func (h *Handler) ask(c *gin.Context) {
	var prompt assistant.Prompt
	if err := c.ShouldBindJSON(&prompt); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	response, err := h.assistant.Ask(c.Request.Context(), prompt)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": response,
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSnapshot serves the latest published document verbatim; the pipeline
// already shaped it, so it is returned as raw JSON rather than re-decoded.
func (h *Handler) GetSnapshot(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-snapshot")
	defer span.End()

	data, err := h.store.Latest(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot unavailable"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot published yet"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

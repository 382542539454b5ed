package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/services"
)

// PipelineHandler handles inventory reanalysis
type PipelineHandler struct {
	pipeline *services.ReanalysisPipeline
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipeline *services.ReanalysisPipeline) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline}
}

// RunReanalysis executes a single reanalysis cycle over the active inventory
func (h *PipelineHandler) RunReanalysis(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	stats, err := h.pipeline.RunOnce(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Reanalysis complete",
		"stats":     stats,
		"timestamp": time.Now().UTC(),
	})
}

// GetReanalysisStatus returns the current status of the reanalysis pipeline
func (h *PipelineHandler) GetReanalysisStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pipeline_status": h.pipeline.Status(),
	})
}

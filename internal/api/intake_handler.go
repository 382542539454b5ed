package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/comps"
	"github.com/ajharbinger/lotpilot/internal/identify"
)

const nextStep = "Confirm or correct the identification, then submit for full analysis."

// IntakeHandler handles vehicle identification and comp discovery
type IntakeHandler struct {
	identifier *identify.Identifier
	comps      *comps.Generator
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(identifier *identify.Identifier, generator *comps.Generator) *IntakeHandler {
	return &IntakeHandler{
		identifier: identifier,
		comps:      generator,
	}
}

// Identify extracts the vehicle identity from a description, URL or listing page
func (h *IntakeHandler) Identify(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var req identify.Request
	if !bindJSON(c, &req, "identification request") {
		return
	}

	identification, err := h.identifier.Identify(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Vehicle identification complete",
		"identification": identification,
		"next_step":      nextStep,
	})
}

// DiscoverComps generates the comparable-sales analysis for a vehicle
func (h *IntakeHandler) DiscoverComps(c *gin.Context) {
	var query comps.Query
	if !bindJSON(c, &query, "comp query") {
		return
	}

	analysis, err := h.comps.Discover(query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Comp discovery complete",
		"comp_analysis": analysis,
	})
}

type overrideRequest struct {
	ManualComps []comps.ManualComp `json:"manual_comps"`
	AutoComps   struct {
		MedianSalePrice float64 `json:"median_sale_price"`
	} `json:"auto_comps"`
}

// OverrideComps weighs manually gathered comps against the automated median
func (h *IntakeHandler) OverrideComps(c *gin.Context) {
	var req overrideRequest
	if !bindJSON(c, &req, "override request") {
		return
	}

	comparison, err := comps.Override(req.ManualComps, req.AutoComps.MedianSalePrice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Comp override processed",
		"comparison": comparison,
	})
}

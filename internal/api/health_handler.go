package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/identify"
)

// Version is the API version reported by the health endpoint
const Version = "2.0.0"

var features = []string{"vision_intake", "comp_discovery", "daily_probability_curve"}

// HealthHandler serves liveness information
type HealthHandler struct {
	storageCheck func() error
	identifier   *identify.Identifier
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storageCheck func() error, identifier *identify.Identifier) *HealthHandler {
	return &HealthHandler{storageCheck: storageCheck, identifier: identifier}
}

// GetHealth reports that the server is up. When a storage check is
// configured and fails the status is degraded with a 503.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status, code := "ok", http.StatusOK
	body := gin.H{
		"timestamp": time.Now().UTC(),
		"version":   Version,
		"features":  features,
	}

	if h.storageCheck != nil {
		if err := h.storageCheck(); err != nil {
			_ = c.Error(err)
			status, code = "degraded", http.StatusServiceUnavailable
			body["storage"] = "unavailable"
		} else {
			body["storage"] = "ok"
		}
	}

	if h.identifier != nil {
		if fetch := h.identifier.FetchHealth(); fetch != nil {
			body["listing_fetch"] = fetch
		}
	}

	body["status"] = status
	c.JSON(code, body)
}

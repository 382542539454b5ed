package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/models"
	"github.com/ajharbinger/lotpilot/internal/repository"
	"github.com/ajharbinger/lotpilot/internal/services"
)

// VehicleHandler handles inventory CRUD and the dashboard
type VehicleHandler struct {
	vehicles services.VehicleService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// ListVehicles returns inventory newest first. Supports status, make,
// limit and offset query parameters.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	filters, err := parseVehicleFilters(c)
	if err != nil {
		respondError(c, err)
		return
	}

	vehicles, err := h.vehicles.List(ctx, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(vehicles),
		"vehicles": vehicles,
	})
}

func parseVehicleFilters(c *gin.Context) (repository.VehicleFilters, error) {
	var filters repository.VehicleFilters
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := models.VehicleStatus(strings.ToLower(strings.TrimSpace(s)))
			if status != models.VehicleActive && status != models.VehicleSold {
				return filters, errors.InvalidInput("invalid status filter", nil).WithDetails(s)
			}
			filters.Status = append(filters.Status, status)
		}
	}
	filters.Make = c.Query("make")

	var err error
	if filters.Limit, err = queryInt(c, "limit"); err != nil {
		return filters, err
	}
	if filters.Offset, err = queryInt(c, "offset"); err != nil {
		return filters, err
	}
	return filters, nil
}

// GetVehicle returns one vehicle
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	vehicle, err := h.vehicles.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// CreateVehicle adds a vehicle to inventory
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req models.VehicleRequest
	if !bindJSON(c, &req, "vehicle") {
		return
	}

	vehicle, err := h.vehicles.Create(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle added",
		"vehicle": vehicle,
	})
}

// UpdateVehicle replaces a vehicle's fields
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req models.VehicleRequest
	if !bindJSON(c, &req, "vehicle") {
		return
	}

	vehicle, err := h.vehicles.Update(ctx, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle updated",
		"vehicle": vehicle,
	})
}

// DeleteVehicle removes a vehicle and its reports
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.vehicles.Delete(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// GetDashboardSummary aggregates the active inventory
func (h *VehicleHandler) GetDashboardSummary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.vehicles.Dashboard(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

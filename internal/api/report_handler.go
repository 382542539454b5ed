package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/models"
	"github.com/ajharbinger/lotpilot/internal/repository"
	"github.com/ajharbinger/lotpilot/internal/services"
)

// ReportHandler handles analysis runs and stored reports
type ReportHandler struct {
	analysis services.AnalysisService
	export   *services.ReportExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(analysis services.AnalysisService, export *services.ReportExportService) *ReportHandler {
	return &ReportHandler{
		analysis: analysis,
		export:   export,
	}
}

// AnalyzeVehicle analyzes a stored vehicle and keeps the report
func (h *ReportHandler) AnalyzeVehicle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	report, err := h.analysis.AnalyzeVehicle(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Analysis complete",
		"report":  report,
	})
}

// AnalyzeDirect analyzes a vehicle record without saving it or its report
func (h *ReportHandler) AnalyzeDirect(c *gin.Context) {
	var req models.VehicleRequest
	if !bindJSON(c, &req, "vehicle") {
		return
	}

	result := h.analysis.AnalyzeRecord(&req)

	c.JSON(http.StatusOK, gin.H{
		"message": "Analysis complete",
		"report": gin.H{
			"id":            uuid.New(),
			"vehicle_title": result.Summary.Vehicle,
			"analysis":      result,
			"created_at":    result.Summary.GeneratedAt,
		},
	})
}

// ListReports returns stored reports newest first
func (h *ReportHandler) ListReports(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	filters, err := parseReportFilters(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reports, err := h.analysis.ListReports(ctx, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(reports),
		"reports": reports,
	})
}

// GetReport returns one stored report
func (h *ReportHandler) GetReport(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report, err := h.analysis.GetReport(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ExportReports exports stored reports in the requested format
func (h *ReportHandler) ExportReports(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	filters, err := parseReportFilters(c)
	if err != nil {
		respondError(c, err)
		return
	}

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	options := services.ExportOptions{
		Format:          format,
		IncludeAnalysis: c.Query("include_analysis") == "true",
		IncludeMetadata: c.Query("include_metadata") != "false",
	}

	data, err := h.export.Export(ctx, filters, options)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "analysis_reports_" + time.Now().Format("2006-01-02_15-04-05") + "." + string(format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), data)
}

// parseReportFilters reads vehicle_id, price_action, exit_path, aging_zone,
// limit and offset from the query string
func parseReportFilters(c *gin.Context) (repository.ReportFilters, error) {
	filters := repository.ReportFilters{
		PriceAction: strings.ToUpper(c.Query("price_action")),
		ExitPath:    strings.ToUpper(c.Query("exit_path")),
		AgingZone:   strings.ToUpper(c.Query("aging_zone")),
	}

	if raw := c.Query("vehicle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, errors.InvalidInput("invalid vehicle_id parameter", err).WithDetails(raw)
		}
		filters.VehicleID = &id
	}

	var err error
	if filters.Limit, err = queryInt(c, "limit"); err != nil {
		return filters, err
	}
	if filters.Offset, err = queryInt(c, "offset"); err != nil {
		return filters, err
	}
	return filters, nil
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajharbinger/lotpilot/internal/services"
)

// SetupRoutes configures all API routes. storageCheck may be nil when the
// backend has nothing to ping.
func SetupRoutes(r *gin.Engine, svc *services.Services, storageCheck func() error) {
	healthHandler := NewHealthHandler(storageCheck, svc.Identifier)
	intakeHandler := NewIntakeHandler(svc.Identifier, svc.Comps)
	vehicleHandler := NewVehicleHandler(svc.Vehicle)
	reportHandler := NewReportHandler(svc.Analysis, svc.Export)
	pipelineHandler := NewPipelineHandler(svc.Reanalysis)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.GetHealth)

		// Intake: identification and comps
		v1.POST("/vision/identify", intakeHandler.Identify)
		v1.POST("/comps/discover", intakeHandler.DiscoverComps)
		v1.POST("/comps/override", intakeHandler.OverrideComps)

		// Inventory
		v1.GET("/vehicles", vehicleHandler.ListVehicles)
		v1.POST("/vehicles", vehicleHandler.CreateVehicle)
		v1.GET("/vehicles/:id", vehicleHandler.GetVehicle)
		v1.PUT("/vehicles/:id", vehicleHandler.UpdateVehicle)
		v1.DELETE("/vehicles/:id", vehicleHandler.DeleteVehicle)
		v1.GET("/dashboard/summary", vehicleHandler.GetDashboardSummary)

		// Analysis and reports
		v1.POST("/vehicles/:id/analyze", reportHandler.AnalyzeVehicle)
		v1.POST("/analyze", reportHandler.AnalyzeDirect)
		v1.GET("/reports", reportHandler.ListReports)
		v1.GET("/reports/export", reportHandler.ExportReports)
		v1.GET("/reports/:id", reportHandler.GetReport)

		// Scheduled reanalysis
		v1.POST("/inventory/reanalyze", pipelineHandler.RunReanalysis)
		v1.GET("/inventory/reanalyze/status", pipelineHandler.GetReanalysisStatus)
	}
}

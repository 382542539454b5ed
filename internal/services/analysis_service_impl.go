package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/analysis"
	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/metrics"
	"github.com/ajharbinger/lotpilot/internal/models"
	"github.com/ajharbinger/lotpilot/internal/repository"
)

// analysisServiceImpl implements AnalysisService
type analysisServiceImpl struct {
	repos  *repository.Repositories
	engine *analysis.AnalysisEngine
	log    logger.Logger
	now    func() time.Time
}

func newAnalysisService(repos *repository.Repositories, engine *analysis.AnalysisEngine, log logger.Logger, now func() time.Time) *analysisServiceImpl {
	return &analysisServiceImpl{repos: repos, engine: engine, log: log, now: now}
}

// run analyzes one record and records its metrics
func (s *analysisServiceImpl) run(v *models.Vehicle) *analysis.Result {
	start := time.Now()
	result := s.engine.Analyze(v)
	metrics.VehicleAnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.VehicleAnalyses.WithLabelValues(string(result.Pricing.Action), string(result.ExitPath.Optimal)).Inc()
	return result
}

// AnalyzeVehicle analyzes a stored vehicle and stores the report
func (s *analysisServiceImpl) AnalyzeVehicle(ctx context.Context, id string) (*repository.Report, error) {
	vehicleID, err := parseID(id, "vehicle")
	if err != nil {
		return nil, err
	}
	v, err := s.repos.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, withOperation(err, "analyze_vehicle")
	}
	return s.AnalyzeAndStore(ctx, v)
}

// AnalyzeAndStore analyzes an already-loaded vehicle and stores the report
func (s *analysisServiceImpl) AnalyzeAndStore(ctx context.Context, v *models.Vehicle) (*repository.Report, error) {
	result := s.run(v)
	report := &repository.Report{
		ID:           uuid.New(),
		VehicleID:    v.ID,
		VehicleTitle: v.Title(),
		Analysis:     result,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repos.Report.Create(ctx, report); err != nil {
		return nil, withOperation(err, "store_report")
	}

	s.log.Debug("analysis stored",
		"report_id", report.ID,
		"vehicle_id", v.ID,
		"price_action", result.Pricing.Action,
		"exit_path", result.ExitPath.Optimal,
		"aging_zone", result.Aging.Zone,
	)
	return report, nil
}

// AnalyzeRecord analyzes a vehicle that is not in inventory. Nothing is stored.
func (s *analysisServiceImpl) AnalyzeRecord(req *models.VehicleRequest) *analysis.Result {
	return s.run(req.ToVehicle(uuid.New()))
}

// ListReports returns reports newest first
func (s *analysisServiceImpl) ListReports(ctx context.Context, filters repository.ReportFilters) ([]repository.Report, error) {
	reports, err := s.repos.Report.GetAll(ctx, filters)
	if err != nil {
		return nil, withOperation(err, "list_reports")
	}
	if reports == nil {
		reports = []repository.Report{}
	}
	return reports, nil
}

// GetReport retrieves a report by ID
func (s *analysisServiceImpl) GetReport(ctx context.Context, id string) (*repository.Report, error) {
	reportID, err := parseID(id, "report")
	if err != nil {
		return nil, err
	}
	report, err := s.repos.Report.GetByID(ctx, reportID)
	if err != nil {
		return nil, withOperation(err, "get_report")
	}
	return report, nil
}

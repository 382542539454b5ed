package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/analysis"
	"github.com/ajharbinger/lotpilot/internal/comps"
	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/identify"
	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/models"
	"github.com/ajharbinger/lotpilot/internal/repository"
)

// Services contains all application services
type Services struct {
	Vehicle    VehicleService
	Analysis   AnalysisService
	Export     *ReportExportService
	Reanalysis *ReanalysisPipeline
	Identifier *identify.Identifier
	Comps      *comps.Generator
}

// VehicleService defines the interface for inventory business logic
type VehicleService interface {
	List(ctx context.Context, filters repository.VehicleFilters) ([]models.Vehicle, error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	Create(ctx context.Context, req *models.VehicleRequest) (*models.Vehicle, error)
	Update(ctx context.Context, id string, req *models.VehicleRequest) (*models.Vehicle, error)
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}

// AnalysisService defines the interface for running and storing analyses
type AnalysisService interface {
	AnalyzeVehicle(ctx context.Context, id string) (*repository.Report, error)
	AnalyzeAndStore(ctx context.Context, vehicle *models.Vehicle) (*repository.Report, error)
	AnalyzeRecord(req *models.VehicleRequest) *analysis.Result
	ListReports(ctx context.Context, filters repository.ReportFilters) ([]repository.Report, error)
	GetReport(ctx context.Context, id string) (*repository.Report, error)
}

// Options tunes the optional collaborators built by NewServices
type Options struct {
	ReanalysisWorkers int
	Fetcher           *identify.ListingFetcher
	Clock             func() time.Time
}

// NewServices creates a new Services instance with all dependencies
func NewServices(repos *repository.Repositories, log logger.Logger, opts Options) *Services {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	engine := analysis.NewAnalysisEngine(analysis.WithClock(clock))
	analysisSvc := newAnalysisService(repos, engine, log, clock)

	return &Services{
		Vehicle:    newVehicleService(repos, log),
		Analysis:   analysisSvc,
		Export:     NewReportExportService(repos.Report, clock),
		Reanalysis: NewReanalysisPipeline(repos, analysisSvc, log, opts.ReanalysisWorkers),
		Identifier: identify.NewIdentifier(opts.Fetcher, log),
		Comps:      comps.NewGenerator(),
	}
}

func parseID(id, kind string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.InvalidInput("invalid "+kind+" ID", err).WithDetails(id)
	}
	return parsed, nil
}

// withOperation tags err with the failing operation, wrapping foreign
// errors as SERVICE_ERROR
func withOperation(err error, op string) error {
	if appErr, ok := errors.As(err); ok {
		return appErr.WithOperation(op)
	}
	return errors.ServiceError(op+" failed", err).WithOperation(op)
}

package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/models"
	"github.com/ajharbinger/lotpilot/internal/repository"
)

// vehicleServiceImpl implements VehicleService
type vehicleServiceImpl struct {
	repos *repository.Repositories
	log   logger.Logger
}

func newVehicleService(repos *repository.Repositories, log logger.Logger) VehicleService {
	return &vehicleServiceImpl{repos: repos, log: log}
}

// List returns vehicles newest first
func (s *vehicleServiceImpl) List(ctx context.Context, filters repository.VehicleFilters) ([]models.Vehicle, error) {
	vehicles, err := s.repos.Vehicle.GetAll(ctx, filters)
	if err != nil {
		return nil, withOperation(err, "list_vehicles")
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return vehicles, nil
}

// Get retrieves a vehicle by ID
func (s *vehicleServiceImpl) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicleID, err := parseID(id, "vehicle")
	if err != nil {
		return nil, err
	}
	v, err := s.repos.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, withOperation(err, "get_vehicle")
	}
	return v, nil
}

// Create stores a new vehicle built from the request
func (s *vehicleServiceImpl) Create(ctx context.Context, req *models.VehicleRequest) (*models.Vehicle, error) {
	v := req.ToVehicle(uuid.New())
	if err := s.repos.Vehicle.Create(ctx, v); err != nil {
		return nil, withOperation(err, "create_vehicle")
	}
	s.log.Info("vehicle added", "vehicle_id", v.ID, "vehicle", v.Title())
	return v, nil
}

// Update replaces a vehicle's fields. An omitted status keeps the current one.
func (s *vehicleServiceImpl) Update(ctx context.Context, id string, req *models.VehicleRequest) (*models.Vehicle, error) {
	vehicleID, err := parseID(id, "vehicle")
	if err != nil {
		return nil, err
	}
	existing, err := s.repos.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, withOperation(err, "update_vehicle")
	}

	v := req.ToVehicle(vehicleID)
	if req.Status == "" {
		v.Status = existing.Status
	}
	if err := s.repos.Vehicle.Update(ctx, v); err != nil {
		return nil, withOperation(err, "update_vehicle")
	}
	s.log.Info("vehicle updated", "vehicle_id", v.ID)
	return v, nil
}

// Delete removes a vehicle and its reports
func (s *vehicleServiceImpl) Delete(ctx context.Context, id string) error {
	vehicleID, err := parseID(id, "vehicle")
	if err != nil {
		return err
	}
	err = s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		if err := repos.Report.DeleteByVehicle(ctx, vehicleID); err != nil {
			return err
		}
		return repos.Vehicle.Delete(ctx, vehicleID)
	})
	if err != nil {
		return withOperation(err, "delete_vehicle")
	}
	s.log.Info("vehicle deleted", "vehicle_id", vehicleID)
	return nil
}

// AgingBreakdown counts active vehicles per aging bucket
type AgingBreakdown struct {
	Healthy int `json:"healthy"`
	AtRisk  int `json:"at_risk"`
	Danger  int `json:"danger"`
}

// DashboardSummary aggregates the active inventory
type DashboardSummary struct {
	TotalVehicles        int            `json:"total_vehicles"`
	TotalInvested        float64        `json:"total_invested"`
	TotalListValue       float64        `json:"total_list_value"`
	TotalPotentialGross  float64        `json:"total_potential_gross"`
	AvgDaysInInventory   float64        `json:"avg_days_in_inventory"`
	DailyFloorplanBurn   float64        `json:"daily_floorplan_burn"`
	MonthlyFloorplanBurn float64        `json:"monthly_floorplan_burn"`
	AgingBreakdown       AgingBreakdown `json:"aging_breakdown"`
}

// Dashboard summarizes every active vehicle
func (s *vehicleServiceImpl) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	active, err := s.repos.Vehicle.GetAll(ctx, repository.VehicleFilters{
		Status: []models.VehicleStatus{models.VehicleActive},
	})
	if err != nil {
		return nil, withOperation(err, "dashboard_summary")
	}
	return summarize(active), nil
}

func summarize(active []models.Vehicle) *DashboardSummary {
	var invested, list, burn float64
	var days int
	var aging AgingBreakdown

	for i := range active {
		v := &active[i]
		invested += v.TotalInvested()
		list += v.ListPrice
		burn += v.DailyFloorplan()
		days += v.DaysInInventory

		switch {
		case v.DaysInInventory <= 30:
			aging.Healthy++
		case v.DaysInInventory <= 60:
			aging.AtRisk++
		default:
			aging.Danger++
		}
	}

	avgDays := 0.0
	if len(active) > 0 {
		avgDays = float64(days) / float64(len(active))
	}

	return &DashboardSummary{
		TotalVehicles:        len(active),
		TotalInvested:        math.Round(invested),
		TotalListValue:       math.Round(list),
		TotalPotentialGross:  math.Round(list - invested),
		AvgDaysInInventory:   math.Round(avgDays),
		DailyFloorplanBurn:   math.Round(burn*100) / 100,
		MonthlyFloorplanBurn: math.Round(burn * 30),
		AgingBreakdown:       aging,
	}
}

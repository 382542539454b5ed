package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/models"
)

// VehicleRepository defines the interface for vehicle data access
type VehicleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	GetAll(ctx context.Context, filters VehicleFilters) ([]models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportRepository defines the interface for analysis report access
type ReportRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	GetAll(ctx context.Context, filters ReportFilters) ([]Report, error)
	Create(ctx context.Context, report *Report) error
	DeleteByVehicle(ctx context.Context, vehicleID uuid.UUID) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Vehicle VehicleRepository
	Report  ReportRepository
	Tx      TransactionManager
}

// VehicleFilters defines filters for listing vehicles
type VehicleFilters struct {
	Status []models.VehicleStatus
	Make   string
	Limit  int
	Offset int
}

// ReportFilters defines filters for listing reports
type ReportFilters struct {
	VehicleID   *uuid.UUID
	PriceAction string
	ExitPath    string
	AgingZone   string
	Limit       int
	Offset      int
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/models"
)

// memoryVehicleRepository keeps vehicles in a map guarded by a RWMutex.
// Records are copied on the way in and out so callers never share state
// with the store.
type memoryVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]models.Vehicle
}

// NewMemoryVehicleRepository creates an empty in-memory vehicle repository
func NewMemoryVehicleRepository() VehicleRepository {
	return &memoryVehicleRepository{vehicles: make(map[uuid.UUID]models.Vehicle)}
}

func (r *memoryVehicleRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, errors.NotFound("vehicle not found", nil).WithDetails(id.String())
	}
	return &v, nil
}

func (r *memoryVehicleRepository) GetAll(_ context.Context, filters VehicleFilters) ([]models.Vehicle, error) {
	r.mu.RLock()
	vehicles := make([]models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if filters.matches(&v) {
			vehicles = append(vehicles, v)
		}
	}
	r.mu.RUnlock()

	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].CreatedAt.After(vehicles[j].CreatedAt)
	})
	return paginate(vehicles, filters.Limit, filters.Offset), nil
}

func (r *memoryVehicleRepository) Create(_ context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	now := time.Now().UTC()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vehicles[vehicle.ID]; exists {
		return errors.Conflict("vehicle already exists", nil).WithDetails(vehicle.ID.String())
	}
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *memoryVehicleRepository) Update(_ context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.vehicles[vehicle.ID]
	if !ok {
		return errors.NotFound("vehicle not found", nil).WithDetails(vehicle.ID.String())
	}
	vehicle.CreatedAt = existing.CreatedAt
	vehicle.UpdatedAt = time.Now().UTC()
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *memoryVehicleRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return errors.NotFound("vehicle not found", nil).WithDetails(id.String())
	}
	delete(r.vehicles, id)
	return nil
}

// memoryReportRepository keeps reports in insertion order
type memoryReportRepository struct {
	mu      sync.RWMutex
	reports []Report
}

// NewMemoryReportRepository creates an empty in-memory report repository
func NewMemoryReportRepository() ReportRepository {
	return &memoryReportRepository{}
}

func (r *memoryReportRepository) GetByID(_ context.Context, id uuid.UUID) (*Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.reports {
		if r.reports[i].ID == id {
			report := r.reports[i]
			return &report, nil
		}
	}
	return nil, errors.NotFound("report not found", nil).WithDetails(id.String())
}

func (r *memoryReportRepository) GetAll(_ context.Context, filters ReportFilters) ([]Report, error) {
	r.mu.RLock()
	reports := make([]Report, 0, len(r.reports))
	for i := len(r.reports) - 1; i >= 0; i-- {
		if filters.matches(&r.reports[i]) {
			reports = append(reports, r.reports[i])
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return paginate(reports, filters.Limit, filters.Offset), nil
}

func (r *memoryReportRepository) Create(_ context.Context, report *Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *memoryReportRepository) DeleteByVehicle(_ context.Context, vehicleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.reports[:0]
	for _, report := range r.reports {
		if report.VehicleID != vehicleID {
			kept = append(kept, report)
		}
	}
	r.reports = kept
	return nil
}

// memoryTransactionManager runs fn against the shared in-memory repositories.
// Writes made before an error are not undone.
type memoryTransactionManager struct {
	repos *Repositories
}

func (tm *memoryTransactionManager) WithTransaction(_ context.Context, fn func(repos *Repositories) error) error {
	if err := fn(tm.repos); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// NewMemoryRepositories creates a repository collection backed by process memory
func NewMemoryRepositories() *Repositories {
	repos := &Repositories{
		Vehicle: NewMemoryVehicleRepository(),
		Report:  NewMemoryReportRepository(),
	}
	repos.Tx = &memoryTransactionManager{repos: repos}
	return repos
}

func (f VehicleFilters) matches(v *models.Vehicle) bool {
	if len(f.Status) > 0 {
		found := false
		for _, s := range f.Status {
			if v.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Make != "" && !strings.EqualFold(v.Make, f.Make) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

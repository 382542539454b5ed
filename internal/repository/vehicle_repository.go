package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/models"
)

const vehicleColumns = `id, year, make, model, trim, mileage, ext_color, int_color, vin, equipment,
		acquisition_cost, recon_cost, list_price, floorplan_rate, wholesale_price, min_gross,
		days_in_inventory, price_changes, days_since_price_change,
		comp_low, comp_high, competing_units, demand_signal, seasonal_notes,
		views_7, views_30, leads_7, leads_30, test_drives_7, test_drives_30,
		sales_notes, status, created_at, updated_at`

// vehicleRepository implements VehicleRepository
type vehicleRepository struct {
	db dbExecutor
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db dbExecutor) VehicleRepository {
	return &vehicleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(row rowScanner) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	err := row.Scan(
		&v.ID, &v.Year, &v.Make, &v.Model, &v.Trim, &v.Mileage, &v.ExtColor, &v.IntColor,
		&v.VIN, &v.Equipment,
		&v.AcquisitionCost, &v.ReconCost, &v.ListPrice, &v.FloorplanRate, &v.WholesalePrice,
		&v.MinGross,
		&v.DaysInInventory, &v.PriceChanges, &v.DaysSincePriceChange,
		&v.CompLow, &v.CompHigh, &v.CompetingUnits, &v.DemandSignal, &v.SeasonalNotes,
		&v.Views7, &v.Views30, &v.Leads7, &v.Leads30, &v.TestDrives7, &v.TestDrives30,
		&v.SalesNotes, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetByID retrieves a vehicle by ID
func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("vehicle not found", err).WithDetails(id.String())
		}
		return nil, errors.DatabaseError("failed to get vehicle", err)
	}
	return v, nil
}

// GetAll lists vehicles newest first
func (r *vehicleRepository) GetAll(ctx context.Context, filters VehicleFilters) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE 1=1`
	var args []interface{}
	argIndex := 1

	if len(filters.Status) > 0 {
		placeholders := make([]string, len(filters.Status))
		for i, status := range filters.Status {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, string(status))
			argIndex++
		}
		query += fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ","))
	}
	if filters.Make != "" {
		query += fmt.Sprintf(" AND LOWER(make) = LOWER($%d)", argIndex)
		args = append(args, filters.Make)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to query vehicles", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan vehicle", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("failed to iterate vehicles", err)
	}
	return vehicles, nil
}

// Create inserts a new vehicle
func (r *vehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	query := `
		INSERT INTO vehicles (` + vehicleColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Year, v.Make, v.Model, v.Trim, v.Mileage, v.ExtColor, v.IntColor, v.VIN,
		v.Equipment,
		v.AcquisitionCost, v.ReconCost, v.ListPrice, v.FloorplanRate, v.WholesalePrice,
		v.MinGross,
		v.DaysInInventory, v.PriceChanges, v.DaysSincePriceChange,
		v.CompLow, v.CompHigh, v.CompetingUnits, string(v.DemandSignal), v.SeasonalNotes,
		v.Views7, v.Views30, v.Leads7, v.Leads30, v.TestDrives7, v.TestDrives30,
		v.SalesNotes, string(v.Status), v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create vehicle", err)
	}
	return nil
}

// Update replaces every mutable column of an existing vehicle
func (r *vehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	v.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE vehicles SET
			year = $2, make = $3, model = $4, trim = $5, mileage = $6, ext_color = $7,
			int_color = $8, vin = $9, equipment = $10, acquisition_cost = $11,
			recon_cost = $12, list_price = $13, floorplan_rate = $14, wholesale_price = $15,
			min_gross = $16, days_in_inventory = $17, price_changes = $18,
			days_since_price_change = $19, comp_low = $20, comp_high = $21,
			competing_units = $22, demand_signal = $23, seasonal_notes = $24,
			views_7 = $25, views_30 = $26, leads_7 = $27, leads_30 = $28,
			test_drives_7 = $29, test_drives_30 = $30, sales_notes = $31, status = $32,
			updated_at = $33
		WHERE id = $1
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.Year, v.Make, v.Model, v.Trim, v.Mileage, v.ExtColor, v.IntColor, v.VIN,
		v.Equipment,
		v.AcquisitionCost, v.ReconCost, v.ListPrice, v.FloorplanRate, v.WholesalePrice,
		v.MinGross,
		v.DaysInInventory, v.PriceChanges, v.DaysSincePriceChange,
		v.CompLow, v.CompHigh, v.CompetingUnits, string(v.DemandSignal), v.SeasonalNotes,
		v.Views7, v.Views30, v.Leads7, v.Leads30, v.TestDrives7, v.TestDrives30,
		v.SalesNotes, string(v.Status), v.UpdatedAt,
	).Scan(&v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFound("vehicle not found", err).WithDetails(v.ID.String())
		}
		return errors.DatabaseError("failed to update vehicle", err)
	}
	return nil
}

// Delete removes a vehicle
func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("failed to delete vehicle", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return errors.NotFound("vehicle not found", nil).WithDetails(id.String())
	}
	return nil
}

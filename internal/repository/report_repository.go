package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/analysis"
	"github.com/ajharbinger/lotpilot/internal/errors"
)

const reportColumns = `id, vehicle_id, vehicle_title, analysis, created_at`

// reportRepository implements ReportRepository. The analysis tree is stored
// as JSONB; price action, exit path and aging zone are denormalized into
// their own columns for filtering.
type reportRepository struct {
	db dbExecutor
}

// NewReportRepository creates a new report repository
func NewReportRepository(db dbExecutor) ReportRepository {
	return &reportRepository{db: db}
}

func scanReport(row rowScanner) (*Report, error) {
	var (
		report Report
		raw    []byte
	)
	if err := row.Scan(&report.ID, &report.VehicleID, &report.VehicleTitle, &raw, &report.CreatedAt); err != nil {
		return nil, err
	}
	report.Analysis = &analysis.Result{}
	if err := json.Unmarshal(raw, report.Analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &report, nil
}

// GetByID retrieves a report by ID
func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("report not found", err).WithDetails(id.String())
		}
		return nil, errors.DatabaseError("failed to get report", err)
	}
	return report, nil
}

// GetAll lists reports newest first
func (r *reportRepository) GetAll(ctx context.Context, filters ReportFilters) ([]Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	var args []interface{}
	argIndex := 1

	addFilter := func(column string, value interface{}) {
		query += fmt.Sprintf(" AND %s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}
	if filters.VehicleID != nil {
		addFilter("vehicle_id", *filters.VehicleID)
	}
	if filters.PriceAction != "" {
		addFilter("price_action", filters.PriceAction)
	}
	if filters.ExitPath != "" {
		addFilter("exit_path", filters.ExitPath)
	}
	if filters.AgingZone != "" {
		addFilter("aging_zone", filters.AgingZone)
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
		return nil, errors.DatabaseError("failed to query reports", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, errors.DatabaseError("failed to scan report", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("failed to iterate reports", err)
	}
	return reports, nil
}

// Create stores a report
func (r *reportRepository) Create(ctx context.Context, report *Report) error {
	if report.Analysis == nil {
		return errors.InvalidInput("report has no analysis", nil)
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(report.Analysis)
	if err != nil {
		return errors.InternalError("failed to encode analysis", err)
	}

	query := `
		INSERT INTO reports (
			id, vehicle_id, vehicle_title, analysis, price_action, exit_path, aging_zone, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.VehicleID, report.VehicleTitle, string(payload),
		report.PriceAction(), report.ExitPath(), report.AgingZone(), report.CreatedAt,
	)
	if err != nil {
		return errors.DatabaseError("failed to create report", err)
	}
	return nil
}

// DeleteByVehicle removes every report for a vehicle
func (r *reportRepository) DeleteByVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE vehicle_id = $1`, vehicleID); err != nil {
		return errors.DatabaseError("failed to delete reports", err)
	}
	return nil
}

package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/lotpilot/internal/analysis"
)

// Report is a stored analysis of one vehicle. Reports are immutable and
// are removed together with their vehicle.
type Report struct {
	ID           uuid.UUID        `json:"id"`
	VehicleID    uuid.UUID        `json:"vehicle_id"`
	VehicleTitle string           `json:"vehicle_title"`
	Analysis     *analysis.Result `json:"analysis"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PriceAction returns the recommended price action, or "" without an analysis
func (r *Report) PriceAction() string {
	if r.Analysis == nil {
		return ""
	}
	return string(r.Analysis.Pricing.Action)
}

// ExitPath returns the recommended exit route
func (r *Report) ExitPath() string {
	if r.Analysis == nil {
		return ""
	}
	return string(r.Analysis.ExitPath.Optimal)
}

// AgingZone returns the aging zone at analysis time
func (r *Report) AgingZone() string {
	if r.Analysis == nil {
		return ""
	}
	return r.Analysis.Aging.Zone
}

// matches reports whether the report passes every set filter field
func (f ReportFilters) matches(r *Report) bool {
	if f.VehicleID != nil && r.VehicleID != *f.VehicleID {
		return false
	}
	if f.PriceAction != "" && r.PriceAction() != f.PriceAction {
		return false
	}
	if f.ExitPath != "" && r.ExitPath() != f.ExitPath {
		return false
	}
	if f.AgingZone != "" && r.AgingZone() != f.AgingZone {
		return false
	}
	return true
}

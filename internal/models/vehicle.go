package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DemandSignal is the regional demand reading for a vehicle segment
type DemandSignal string

const (
	DemandHigh     DemandSignal = "high"
	DemandModerate DemandSignal = "moderate"
	DemandSoft     DemandSignal = "soft"
)

// VehicleStatus represents inventory status values
type VehicleStatus string

const (
	VehicleActive VehicleStatus = "active"
	VehicleSold   VehicleStatus = "sold"
)

// Default values applied when a request leaves a field out
const (
	DefaultFloorplanRate = 7.25
	DefaultMinGross      = 2000.0
)

// Vehicle represents a single inventory unit with its cost basis, market
// comparables and engagement telemetry.
type Vehicle struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Year     int       `json:"year" db:"year"`
	Make     string    `json:"make" db:"make"`
	Model    string    `json:"model" db:"model"`
	Trim     string    `json:"trim" db:"trim"`
	Mileage  int       `json:"mileage" db:"mileage"`
	ExtColor string    `json:"ext_color" db:"ext_color"`
	IntColor string    `json:"int_color" db:"int_color"`
	VIN      string    `json:"vin" db:"vin"`

	Equipment string `json:"equipment" db:"equipment"`

	AcquisitionCost float64 `json:"acquisition_cost" db:"acquisition_cost"`
	ReconCost       float64 `json:"recon_cost" db:"recon_cost"`
	ListPrice       float64 `json:"list_price" db:"list_price"`
	FloorplanRate   float64 `json:"floorplan_rate" db:"floorplan_rate"`
	WholesalePrice  float64 `json:"wholesale_price" db:"wholesale_price"`
	MinGross        float64 `json:"min_gross" db:"min_gross"`

	DaysInInventory      int `json:"days_in_inventory" db:"days_in_inventory"`
	PriceChanges         int `json:"price_changes" db:"price_changes"`
	DaysSincePriceChange int `json:"days_since_price_change" db:"days_since_price_change"`

	CompLow        float64      `json:"comp_low" db:"comp_low"`
	CompHigh       float64      `json:"comp_high" db:"comp_high"`
	CompetingUnits int          `json:"competing_units" db:"competing_units"`
	DemandSignal   DemandSignal `json:"demand_signal" db:"demand_signal"`
	SeasonalNotes  string       `json:"seasonal_notes" db:"seasonal_notes"`

	Views7       int `json:"views_7" db:"views_7"`
	Views30      int `json:"views_30" db:"views_30"`
	Leads7       int `json:"leads_7" db:"leads_7"`
	Leads30      int `json:"leads_30" db:"leads_30"`
	TestDrives7  int `json:"test_drives_7" db:"test_drives_7"`
	TestDrives30 int `json:"test_drives_30" db:"test_drives_30"`

	SalesNotes string        `json:"sales_notes" db:"sales_notes"`
	Status     VehicleStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// Title returns the "year make model trim" display string
func (v *Vehicle) Title() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s %s %s", v.Year, v.Make, v.Model, v.Trim))
}

// TotalInvested returns acquisition plus reconditioning cost
func (v *Vehicle) TotalInvested() float64 {
	return v.AcquisitionCost + v.ReconCost
}

// DailyFloorplan returns the financing cost accrued per day on the invested capital
func (v *Vehicle) DailyFloorplan() float64 {
	return v.TotalInvested() * (v.FloorplanRate / 100) / 365
}

// IsActive returns true if the vehicle is still in active inventory
func (v *Vehicle) IsActive() bool {
	return v.Status == VehicleActive
}

// VehicleRequest is the inbound shape for creating, updating or directly
// analyzing a vehicle. Optional fields with non-zero defaults are pointers so
// an explicit zero can be told apart from an omitted field.
type VehicleRequest struct {
	Year      int    `json:"year" binding:"required,gte=1900,lte=2100"`
	Make      string `json:"make" binding:"required"`
	Model     string `json:"model" binding:"required"`
	Trim      string `json:"trim"`
	Mileage   int    `json:"mileage" binding:"gte=0"`
	ExtColor  string `json:"ext_color"`
	IntColor  string `json:"int_color"`
	VIN       string `json:"vin"`
	Equipment string `json:"equipment"`

	AcquisitionCost float64  `json:"acquisition_cost" binding:"required,gt=0"`
	ReconCost       float64  `json:"recon_cost" binding:"gte=0"`
	ListPrice       float64  `json:"list_price" binding:"required,gt=0"`
	FloorplanRate   *float64 `json:"floorplan_rate" binding:"omitempty,gte=0"`
	WholesalePrice  float64  `json:"wholesale_price" binding:"gte=0"`
	MinGross        *float64 `json:"min_gross" binding:"omitempty,gte=0"`

	DaysInInventory      int `json:"days_in_inventory" binding:"gte=0"`
	PriceChanges         int `json:"price_changes" binding:"gte=0"`
	DaysSincePriceChange int `json:"days_since_price_change" binding:"gte=0"`

	CompLow        float64 `json:"comp_low" binding:"gte=0"`
	CompHigh       float64 `json:"comp_high" binding:"gte=0,gtefield=CompLow"`
	CompetingUnits int     `json:"competing_units" binding:"gte=0"`
	DemandSignal   string  `json:"demand_signal" binding:"omitempty,oneof=high moderate soft"`
	SeasonalNotes  string  `json:"seasonal_notes"`

	Views7       int `json:"views_7" binding:"gte=0"`
	Views30      int `json:"views_30" binding:"gte=0"`
	Leads7       int `json:"leads_7" binding:"gte=0"`
	Leads30      int `json:"leads_30" binding:"gte=0"`
	TestDrives7  int `json:"test_drives_7" binding:"gte=0"`
	TestDrives30 int `json:"test_drives_30" binding:"gte=0"`

	SalesNotes string `json:"sales_notes"`
	Status     string `json:"status" binding:"omitempty,oneof=active sold"`
}

// ToVehicle builds a vehicle record from the request, applying defaults for
// omitted fields. Status defaults to active.
func (r *VehicleRequest) ToVehicle(id uuid.UUID) *Vehicle {
	floorplanRate := DefaultFloorplanRate
	if r.FloorplanRate != nil {
		floorplanRate = *r.FloorplanRate
	}
	minGross := DefaultMinGross
	if r.MinGross != nil {
		minGross = *r.MinGross
	}
	demand := DemandSignal(r.DemandSignal)
	if demand == "" {
		demand = DemandModerate
	}
	status := VehicleStatus(r.Status)
	if status == "" {
		status = VehicleActive
	}

	return &Vehicle{
		ID:                   id,
		Year:                 r.Year,
		Make:                 r.Make,
		Model:                r.Model,
		Trim:                 r.Trim,
		Mileage:              r.Mileage,
		ExtColor:             r.ExtColor,
		IntColor:             r.IntColor,
		VIN:                  r.VIN,
		Equipment:            r.Equipment,
		AcquisitionCost:      r.AcquisitionCost,
		ReconCost:            r.ReconCost,
		ListPrice:            r.ListPrice,
		FloorplanRate:        floorplanRate,
		WholesalePrice:       r.WholesalePrice,
		MinGross:             minGross,
		DaysInInventory:      r.DaysInInventory,
		PriceChanges:         r.PriceChanges,
		DaysSincePriceChange: r.DaysSincePriceChange,
		CompLow:              r.CompLow,
		CompHigh:             r.CompHigh,
		CompetingUnits:       r.CompetingUnits,
		DemandSignal:         demand,
		SeasonalNotes:        r.SeasonalNotes,
		Views7:               r.Views7,
		Views30:              r.Views30,
		Leads7:               r.Leads7,
		Leads30:              r.Leads30,
		TestDrives7:          r.TestDrives7,
		TestDrives30:         r.TestDrives30,
		SalesNotes:           r.SalesNotes,
		Status:               status,
	}
}

package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ajharbinger/lotpilot/internal/analysis"
	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/repository"
)

// ReportExportService handles filtering and exporting stored reports
type ReportExportService struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// NewReportExportService creates a new report export service
func NewReportExportService(reports repository.ReportRepository, now func() time.Time) *ReportExportService {
	return &ReportExportService{reports: reports, now: now}
}

// ExportFormat specifies the format for exporting reports
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat validates a format name, defaulting to JSON
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errors.InvalidInput("unsupported export format", nil).WithDetails(s)
	}
}

// ContentType returns the MIME type for the format
func (f ExportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// ExportOptions contains options for exporting reports
type ExportOptions struct {
	Format          ExportFormat `json:"format"`
	IncludeAnalysis bool         `json:"include_analysis"`
	IncludeMetadata bool         `json:"include_metadata"`
}

// ExportRow is the flattened headline view of one report
type ExportRow struct {
	ReportID          string           `json:"report_id"`
	VehicleID         string           `json:"vehicle_id"`
	Vehicle           string           `json:"vehicle"`
	CreatedAt         time.Time        `json:"created_at"`
	DaysInInventory   int              `json:"days_in_inventory"`
	AgingZone         string           `json:"aging_zone"`
	CurrentList       float64          `json:"current_list"`
	RecommendedPrice  float64          `json:"recommended_price"`
	PriceAction       string           `json:"price_action"`
	ChangeAmount      float64          `json:"change_amount"`
	OptimalPrice      float64          `json:"optimal_price"`
	Prob30Day         int              `json:"prob_30_day"`
	Prob60Day         int              `json:"prob_60_day"`
	Prob90Day         int              `json:"prob_90_day"`
	OptimalExit       string           `json:"optimal_exit"`
	ReassessAtDay     int              `json:"reassess_at_day"`
	TotalInvested     float64          `json:"total_invested"`
	CurrentNetGross   float64          `json:"current_net_gross"`
	WholesaleNetToday float64          `json:"wholesale_net_today"`
	Confidence        string           `json:"confidence"`
	Risks             []string         `json:"risks"`
	Analysis          *analysis.Result `json:"analysis,omitempty"`
}

func toExportRow(r *repository.Report, includeAnalysis bool) ExportRow {
	a := r.Analysis
	row := ExportRow{
		ReportID:          r.ID.String(),
		VehicleID:         r.VehicleID.String(),
		Vehicle:           r.VehicleTitle,
		CreatedAt:         r.CreatedAt,
		DaysInInventory:   a.Aging.DaysInInventory,
		AgingZone:         a.Aging.Zone,
		CurrentList:       a.Pricing.CurrentListPrice,
		RecommendedPrice:  a.Pricing.NewListPrice,
		PriceAction:       string(a.Pricing.Action),
		ChangeAmount:      a.Pricing.ChangeAmount,
		OptimalPrice:      a.Pricing.OptimalPrice,
		Prob30Day:         a.SaleProbability.Prob30Day,
		Prob60Day:         a.SaleProbability.Prob60Day,
		Prob90Day:         a.SaleProbability.Prob90Day,
		OptimalExit:       string(a.ExitPath.Optimal),
		ReassessAtDay:     a.ExitPath.DecisionTrigger.ReassessAtDay,
		TotalInvested:     a.Financials.TotalInvested,
		CurrentNetGross:   a.Financials.CurrentNetGross,
		WholesaleNetToday: a.Financials.WholesaleNetToday,
		Confidence:        a.RiskAndConfidence.Confidence.Level,
		Risks:             make([]string, 0, len(a.RiskAndConfidence.Risks)),
	}
	for _, risk := range a.RiskAndConfidence.Risks {
		row.Risks = append(row.Risks, risk.Factor)
	}
	if includeAnalysis {
		row.Analysis = a
	}
	return row
}

// Export renders the reports matching filter in the requested format
func (s *ReportExportService) Export(ctx context.Context, filter repository.ReportFilters, options ExportOptions) ([]byte, error) {
	reports, err := s.reports.GetAll(ctx, filter)
	if err != nil {
		return nil, withOperation(err, "export_reports")
	}

	rows := make([]ExportRow, 0, len(reports))
	for i := range reports {
		if reports[i].Analysis == nil {
			continue
		}
		rows = append(rows, toExportRow(&reports[i], options.IncludeAnalysis && options.Format == FormatJSON))
	}

	switch options.Format {
	case FormatJSON, "":
		return s.exportToJSON(rows, filter, options)
	case FormatCSV:
		return s.exportToCSV(rows)
	default:
		return nil, errors.InvalidInput("unsupported export format", nil).WithDetails(string(options.Format))
	}
}

func (s *ReportExportService) exportToJSON(rows []ExportRow, filter repository.ReportFilters, options ExportOptions) ([]byte, error) {
	exportData := map[string]interface{}{
		"reports":     rows,
		"count":       len(rows),
		"exported_at": s.now().UTC(),
	}

	if options.IncludeMetadata {
		exportData["metadata"] = map[string]interface{}{
			"export_format":    "json",
			"include_analysis": options.IncludeAnalysis,
			"filters": map[string]interface{}{
				"price_action": filter.PriceAction,
				"exit_path":    filter.ExitPath,
				"aging_zone":   filter.AgingZone,
				"limit":        filter.Limit,
			},
		}
	}

	return json.MarshalIndent(exportData, "", "  ")
}

var csvHeaders = []string{
	"report_id", "vehicle_id", "vehicle", "created_at", "days_in_inventory", "aging_zone",
	"current_list", "recommended_price", "price_action", "change_amount", "optimal_price",
	"prob_30_day", "prob_60_day", "prob_90_day", "optimal_exit", "reassess_at_day",
	"total_invested", "current_net_gross", "wholesale_net_today", "confidence", "risks",
}

func (s *ReportExportService) exportToCSV(rows []ExportRow) ([]byte, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.ReportID,
			row.VehicleID,
			row.Vehicle,
			row.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(row.DaysInInventory),
			row.AgingZone,
			formatMoney(row.CurrentList),
			formatMoney(row.RecommendedPrice),
			row.PriceAction,
			formatMoney(row.ChangeAmount),
			formatMoney(row.OptimalPrice),
			strconv.Itoa(row.Prob30Day),
			strconv.Itoa(row.Prob60Day),
			strconv.Itoa(row.Prob90Day),
			row.OptimalExit,
			strconv.Itoa(row.ReassessAtDay),
			formatMoney(row.TotalInvested),
			formatMoney(row.CurrentNetGross),
			formatMoney(row.WholesaleNetToday),
			row.Confidence,
			strings.Join(row.Risks, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return []byte(output.String()), nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

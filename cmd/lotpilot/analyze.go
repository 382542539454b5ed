package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajharbinger/lotpilot/internal/analysis"
	"github.com/ajharbinger/lotpilot/internal/models"
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var (
		file   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a vehicle record from a JSON file",
		Example: `  lotpilot analyze --file camry.json
  cat camry.json | lotpilot analyze --file - --format table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return fmt.Errorf("read vehicle: %w", err)
			}
			result, err := analyzeJSON(data)
			if err != nil {
				return err
			}
			root.logger().Debug("analysis complete",
				"price_action", result.Pricing.Action,
				"exit_path", result.ExitPath.Optimal)

			switch strings.ToLower(format) {
			case "json":
				return writeJSON(cmd.OutOrStdout(), result)
			case "table":
				return writeTable(cmd.OutOrStdout(), result)
			default:
				return fmt.Errorf("unsupported format %q (json or table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "vehicle JSON file, or - for stdin")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or table")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func analyzeJSON(data []byte) (*analysis.Result, error) {
	var req models.VehicleRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode vehicle: %w", err)
	}
	if err := validate(&req); err != nil {
		return nil, err
	}
	return analysis.NewAnalysisEngine().Analyze(req.ToVehicle(uuid.New())), nil
}

func writeTable(w io.Writer, r *analysis.Result) error {
	p := message.NewPrinter(language.English)
	money := func(v float64) string { return p.Sprintf("$%.0f", v) }

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Vehicle", r.Summary.Vehicle},
		{"Total invested", money(r.Financials.TotalInvested)},
		{"Current list", money(r.Pricing.CurrentListPrice)},
		{"Price action", string(r.Pricing.Action)},
		{"Recommended price", money(r.Pricing.NewListPrice)},
		{"Market position", fmt.Sprintf("%s (%dth pct)", r.MarketPosition.Label, r.MarketPosition.Percentile)},
		{"Sale probability", fmt.Sprintf("30d %d%% / 60d %d%% / 90d %d%%",
			r.SaleProbability.Prob30Day, r.SaleProbability.Prob60Day, r.SaleProbability.Prob90Day)},
		{"Aging zone", fmt.Sprintf("%s (day %d)", r.Aging.Zone, r.Aging.DaysInInventory)},
		{"Optimal exit", string(r.ExitPath.Optimal)},
		{"Reassess at day", fmt.Sprintf("%d", r.ExitPath.DecisionTrigger.ReassessAtDay)},
		{"Confidence", r.Summary.Confidence},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}

	if len(r.ActionPlan) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "#\tAction\tTiming")
		for _, a := range r.ActionPlan {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", a.Priority, a.Title, a.Timing)
		}
	}
	return tw.Flush()
}

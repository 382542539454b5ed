package main

import (
	"github.com/spf13/cobra"

	"github.com/ajharbinger/lotpilot/internal/comps"
)

func newCompsCmd() *cobra.Command {
	var q comps.Query
	cmd := &cobra.Command{
		Use:   "comps",
		Short: "Generate a comparable-sales analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(&q); err != nil {
				return err
			}
			result, err := comps.NewGenerator().Discover(q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	f := cmd.Flags()
	f.IntVar(&q.Year, "year", 0, "model year")
	f.StringVar(&q.Make, "make", "", "make")
	f.StringVar(&q.Model, "model", "", "model")
	f.StringVar(&q.Trim, "trim", "", "trim")
	f.IntVar(&q.Mileage, "mileage", 0, "odometer reading")
	f.Float64Var(&q.ListPrice, "list-price", 0, "current list price")
	f.Float64Var(&q.CompLow, "comp-low", 0, "low end of the comp range")
	f.Float64Var(&q.CompHigh, "comp-high", 0, "high end of the comp range")
	f.IntVar(&q.CompetingUnits, "competing-units", 0, "competing units in market")
	f.StringVar(&q.ZipCode, "zip", "", "market zip code")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("make")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

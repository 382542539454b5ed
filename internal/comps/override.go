package comps

import (
	"fmt"
	"math"
	"sort"

	"github.com/ajharbinger/lotpilot/internal/errors"
)

// Weight recommendations for reconciling manual and automated comps
const (
	WeightManual    = "MANUAL_WEIGHTED"
	WeightBlended   = "BLENDED"
	WeightAutomated = "AUTO_CONFIRMED"
)

// ManualComp is a comparable gathered by hand. Zero fields are ignored.
type ManualComp struct {
	Price      float64 `json:"price"`
	DaysToSale int     `json:"days_to_sale"`
}

// Comparison reconciles manual comps against the automated median
type Comparison struct {
	ManualMedian         int     `json:"manual_median"`
	AutoMedian           *int    `json:"auto_median"`
	DiscrepancyDollars   int     `json:"discrepancy_dollars"`
	DiscrepancyPercent   float64 `json:"discrepancy_percent"`
	WeightRecommendation string  `json:"weight_recommendation"`
	WeightExplanation    string  `json:"weight_explanation"`
	BlendedMedian        int     `json:"blended_median"`
	ManualCompCount      int     `json:"manual_comp_count"`
	ManualAvgDaysToSale  *int    `json:"manual_avg_days_to_sale"`
}

// Override weighs manual comps against an automated median. An autoMedian
// of zero means no automated data and the manual median stands alone.
func Override(manual []ManualComp, autoMedian float64) (*Comparison, error) {
	if len(manual) == 0 {
		return nil, errors.InvalidInput("Provide manual_comps array", nil).WithOperation("override_comps")
	}

	var prices []float64
	var days []int
	for _, c := range manual {
		if c.Price > 0 {
			prices = append(prices, c.Price)
		}
		if c.DaysToSale > 0 {
			days = append(days, c.DaysToSale)
		}
	}
	sort.Float64s(prices)

	manualMedian := 0.0
	if len(prices) > 0 {
		manualMedian = prices[len(prices)/2]
	}

	discrepancy, discrepancyPct := 0.0, 0.0
	if autoMedian > 0 {
		discrepancy = math.Abs(manualMedian - autoMedian)
		discrepancyPct = discrepancy / autoMedian * 100
	}

	cmp := &Comparison{
		ManualMedian:       roundInt(manualMedian),
		DiscrepancyDollars: roundInt(discrepancy),
		DiscrepancyPercent: math.Round(discrepancyPct*10) / 10,
		ManualCompCount:    len(manual),
	}
	if autoMedian > 0 {
		am := roundInt(autoMedian)
		cmp.AutoMedian = &am
	}
	if len(days) > 0 {
		total := 0
		for _, d := range days {
			total += d
		}
		avg := roundInt(float64(total) / float64(len(days)))
		cmp.ManualAvgDaysToSale = &avg
	}

	blended := manualMedian
	switch {
	case discrepancyPct > 10:
		cmp.WeightRecommendation = WeightManual
		cmp.WeightExplanation = fmt.Sprintf("Manual comps diverge %.1f%% from automated data. Manual data likely reflects more current or localized conditions. Weighting manual comps at 70%%.", discrepancyPct)
		blended = manualMedian*0.7 + autoMedian*0.3
	case discrepancyPct > 5:
		cmp.WeightRecommendation = WeightBlended
		cmp.WeightExplanation = fmt.Sprintf("Moderate %.1f%% discrepancy. Blending equally for balanced estimate.", discrepancyPct)
		blended = (manualMedian + autoMedian) / 2
	default:
		cmp.WeightRecommendation = WeightAutomated
		cmp.WeightExplanation = "Manual comps confirm automated findings. High confidence in automated data."
		if autoMedian > 0 {
			blended = autoMedian
		}
	}
	cmp.BlendedMedian = roundInt(blended)
	return cmp, nil
}

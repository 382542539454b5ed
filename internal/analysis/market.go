package analysis

import "github.com/ajharbinger/lotpilot/internal/models"

// neutralPosition is used when the comp band is missing or inverted
const neutralPosition = 0.5

var marketLabels = ladder[string]{
	match: above,
	rungs: []rung[string]{
		{0.75, "Top Quartile — Overpriced Risk"},
		{0.5, "Above Mid-Market"},
		{0.25, "Mid-Market"},
	},
	otherwise: "Value Position",
}

// placement locates the list price inside the comp band. The position is
// not clamped: a list price outside the band yields a value below 0 or above 1.
type placement struct {
	compRange float64
	position  float64
}

func placeInMarket(v *models.Vehicle) placement {
	p := placement{
		compRange: v.CompHigh - v.CompLow,
		position:  neutralPosition,
	}
	if p.compRange > 0 {
		p.position = (v.ListPrice - v.CompLow) / p.compRange
	}
	return p
}

func (p placement) hasBand() bool {
	return p.compRange > 0
}

func (p placement) toMarketPosition(v *models.Vehicle) MarketPosition {
	return MarketPosition{
		Percentile:     percent(p.position),
		Label:          marketLabels.pick(p.position),
		CompRange:      PriceRange{Low: v.CompLow, High: v.CompHigh},
		CompetingUnits: v.CompetingUnits,
		DemandSignal:   string(v.DemandSignal),
	}
}

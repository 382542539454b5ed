package analysis

import (
	"fmt"

	"github.com/ajharbinger/lotpilot/internal/models"
)

var demandFactors = map[models.DemandSignal]float64{
	models.DemandHigh: 1.2,
	models.DemandSoft: 0.75,
}

var competitionFactors = ladder[float64]{
	match:     atMost,
	rungs:     []rung[float64]{{5, 1.3}, {10, 1.1}, {20, 0.9}},
	otherwise: 0.7,
}

var agingFactors = ladder[float64]{
	match:     atMost,
	rungs:     []rung[float64]{{20, 1.2}, {40, 1.0}, {60, 0.85}, {90, 0.65}},
	otherwise: 0.45,
}

var engagementFactors = ladder[float64]{
	match:     above,
	rungs:     []rung[float64]{{25, 1.2}, {12, 1.0}, {5, 0.8}},
	otherwise: 0.6,
}

var priceFactors = ladder[float64]{
	match:     above,
	rungs:     []rung[float64]{{0.8, 0.7}, {0.6, 0.85}, {0.4, 1.0}, {0.2, 1.15}},
	otherwise: 1.25,
}

// horizon maps the composite factor onto one milestone probability
type horizon struct {
	coefficient float64
	floor       float64
	ceiling     float64
}

var (
	horizon30 = horizon{coefficient: 0.35, floor: 0.05, ceiling: 0.95}
	horizon60 = horizon{coefficient: 0.55 * 1.1, floor: 0.10, ceiling: 0.97}
	horizon90 = horizon{coefficient: 0.72 * 1.15, floor: 0.20, ceiling: 0.98}
)

func (h horizon) probability(composite float64) float64 {
	return clamp(h.coefficient*composite, h.floor, h.ceiling)
}

// saleOdds holds the composite model output as fractions
type saleOdds struct {
	factors ModelFactors
	prob30  float64
	prob60  float64
	prob90  float64
}

func (o saleOdds) composite() float64 {
	return o.factors.Composite
}

func demandFactor(signal models.DemandSignal) float64 {
	if f, ok := demandFactors[signal]; ok {
		return f
	}
	return 1.0
}

func estimateSaleOdds(v *models.Vehicle, p placement, e engagementSignals) saleOdds {
	f := ModelFactors{
		Demand:      demandFactor(v.DemandSignal),
		Competition: competitionFactors.pick(float64(v.CompetingUnits)),
		Aging:       agingFactors.pick(float64(v.DaysInInventory)),
		Engagement:  engagementFactors.pick(e.score),
		Price:       priceFactors.pick(p.position),
	}
	f.Composite = f.Demand * f.Competition * f.Aging * f.Engagement * f.Price

	return saleOdds{
		factors: f,
		prob30:  horizon30.probability(f.Composite),
		prob60:  horizon60.probability(f.Composite),
		prob90:  horizon90.probability(f.Composite),
	}
}

// horizonFactors are the advisory sentences attached to each milestone
type horizonFactors struct {
	within30 []string
	within60 []string
	within90 []string
}

func explainHorizons(v *models.Vehicle, p placement, e engagementSignals) horizonFactors {
	h := horizonFactors{
		within30: []string{},
		within60: []string{},
		within90: []string{},
	}

	if p.position > 0.65 {
		h.within30 = append(h.within30, "Priced in upper range of comps — limits buyer pool.")
		h.within60 = append(h.within60, "Extended exposure at high price depletes interested buyers.")
	}
	if v.CompetingUnits > 12 {
		h.within30 = append(h.within30, fmt.Sprintf("%d competing units give buyers alternatives and time.", v.CompetingUnits))
	}
	if e.score < 10 {
		h.within30 = append(h.within30, "Low engagement — insufficient buyer interest at current positioning.")
	} else if e.score > 20 {
		h.within30 = append(h.within30, "Solid engagement — conversion rate is the key lever.")
	}
	if v.DaysInInventory > 40 {
		h.within60 = append(h.within60, "Many local buyers have already seen and passed on this listing.")
		h.within90 = append(h.within90, "Remaining buyer pool is thin. Price is the only lever left.")
	}
	if e.viewTrend < -15 {
		h.within30 = append(h.within30, "View trend declining sharply — losing visibility.")
	}
	switch v.DemandSignal {
	case models.DemandHigh:
		h.within30 = append(h.within30, "High regional demand supports faster absorption.")
	case models.DemandSoft:
		h.within30 = append(h.within30, "Soft demand extends expected time to sale.")
	}

	if len(h.within60) == 0 {
		h.within60 = append(h.within60, "Standard market dynamics. Price and marketing effort are primary levers.")
	}
	if len(h.within90) == 0 {
		h.within90 = append(h.within90, "Near-certain retail exit if priced correctly, but margin erosion makes timing critical.")
	}
	return h
}

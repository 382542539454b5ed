package analysis

import (
	"fmt"
	"math"

	"github.com/ajharbinger/lotpilot/internal/models"
)

// PriceAction is the pricing recommendation
type PriceAction string

const (
	PriceReduce   PriceAction = "REDUCE"
	PriceIncrease PriceAction = "INCREASE"
	PriceHold     PriceAction = "HOLD"
)

const (
	// optimalPosition is the target placement inside the comp band
	optimalPosition = 0.45
	minimumCut      = 300.0
	maximumRaise    = 800.0
)

// pricingInputs is what the pricing rules are evaluated against
type pricingInputs struct {
	vehicle    *models.Vehicle
	costs      costBasis
	market     placement
	engagement engagementSignals
	priceDiff  float64
	format     formatter
}

// priceDecision is the outcome of the first pricing rule that fires
type priceDecision struct {
	action    PriceAction
	change    float64
	reasoning string
}

type pricingRule struct {
	name   string
	when   func(in pricingInputs) bool
	decide func(in pricingInputs) priceDecision
}

// pricingRules is evaluated in order; the first rule whose guard holds wins
var pricingRules = []pricingRule{
	{
		name: "overpriced_and_aging",
		when: func(in pricingInputs) bool {
			return in.market.position > 0.65 && in.vehicle.DaysInInventory > 30
		},
		decide: func(in pricingInputs) priceDecision {
			ceiling := roundHundred(in.costs.potentialGross * 0.35)
			change := math.Max(minimumCut, math.Min(roundHundred(in.priceDiff), ceiling))
			return priceDecision{
				action: PriceReduce,
				change: change,
				reasoning: fmt.Sprintf("At %dth percentile with %d days aging. %s reduction to %s repositions to mid-market with negotiation room.",
					percent(in.market.position), in.vehicle.DaysInInventory,
					in.format.money(change), in.format.money(in.vehicle.ListPrice-change)),
			}
		},
	},
	{
		name: "underpriced_with_traction",
		when: func(in pricingInputs) bool {
			return in.market.position < 0.25 && in.vehicle.DaysInInventory < 20 && in.engagement.score > 20
		},
		decide: func(in pricingInputs) priceDecision {
			return priceDecision{
				action:    PriceIncrease,
				change:    math.Min(roundHundred(math.Abs(in.priceDiff)*0.5), maximumRaise),
				reasoning: "Strong engagement at below-market price. Room to capture additional gross.",
			}
		},
	},
	{
		name: "slightly_overpriced_and_stale",
		when: func(in pricingInputs) bool {
			return in.market.position > 0.55 && in.vehicle.DaysInInventory > 45
		},
		decide: func(in pricingInputs) priceDecision {
			change := math.Max(minimumCut, roundHundred(in.priceDiff*0.7))
			return priceDecision{
				action: PriceReduce,
				change: change,
				reasoning: fmt.Sprintf("Slightly over-positioned and aging at %d days. %s cut improves competitive stance.",
					in.vehicle.DaysInInventory, in.format.money(change)),
			}
		},
	},
}

var holdDecision = priceDecision{
	action:    PriceHold,
	reasoning: "Price and engagement balanced. Hold and monitor.",
}

func decidePrice(in pricingInputs) priceDecision {
	for _, rule := range pricingRules {
		if rule.when(in) {
			return rule.decide(in)
		}
	}
	return holdDecision
}

// newPrice applies the decision to the current list price
func (d priceDecision) newPrice(listPrice float64) float64 {
	switch d.action {
	case PriceReduce:
		return listPrice - d.change
	case PriceIncrease:
		return listPrice + d.change
	default:
		return listPrice
	}
}

// probabilityShift is the estimated change, in percentage points, of the
// 30-day sale probability caused by the decision
func (d priceDecision) probabilityShift() int {
	switch d.action {
	case PriceReduce:
		return int(math.Min(15, math.Round(d.change/100*2)))
	case PriceIncrease:
		return -int(math.Min(8, math.Round(d.change/100*1.5)))
	default:
		return 0
	}
}

func (d priceDecision) grossImpact() float64 {
	switch d.action {
	case PriceReduce:
		return -d.change
	case PriceIncrease:
		return d.change
	default:
		return 0
	}
}

var elasticityLevels = ladder[string]{
	match:     above,
	rungs:     []rung[string]{{15, "HIGH"}, {8, "MODERATE-HIGH"}, {4, "MODERATE"}},
	otherwise: "LOW",
}

func elasticityFor(competingUnits int) Elasticity {
	level := elasticityLevels.pick(float64(competingUnits))
	var detail string
	switch level {
	case "HIGH":
		detail = fmt.Sprintf("%d competing units. Buyers are highly price-aware. Price directly impacts search visibility.", competingUnits)
	case "MODERATE-HIGH":
		detail = "Meaningful competition. Price changes impact lead volume."
	case "MODERATE":
		detail = "Moderate competition. Vehicle attributes also matter."
	default:
		detail = "Limited competition. Stronger pricing power."
	}
	return Elasticity{Level: level, Detail: detail}
}

// optimalPrice places the target price at the optimal position within the
// comp band, or keeps the list price when there is no usable band
func optimalPrice(v *models.Vehicle, p placement) float64 {
	if !p.hasBand() {
		return v.ListPrice
	}
	return v.CompLow + p.compRange*optimalPosition
}

func impactExplanation(action PriceAction, shift int) string {
	noun := "hold"
	switch action {
	case PriceReduce:
		noun = "reduction"
	case PriceIncrease:
		noun = "increase"
	}
	verb := "maintain"
	if shift > 0 {
		verb = "increase"
	} else if shift < 0 {
		verb = "decrease"
	}
	if shift < 0 {
		shift = -shift
	}
	return fmt.Sprintf("Price %s expected to %s 30-day sell probability by ~%d percentage points.", noun, verb, shift)
}

// pricingOutcome carries the unrounded pricing figures later stages need
type pricingOutcome struct {
	decision  priceDecision
	newPrice  float64
	transLow  float64
	transHigh float64
	grossLow  float64
	grossHigh float64
	probShift int
}

func priceVehicle(v *models.Vehicle, c costBasis, p placement, e engagementSignals, f formatter) (pricingOutcome, Pricing) {
	target := optimalPrice(v, p)
	decision := decidePrice(pricingInputs{
		vehicle:    v,
		costs:      c,
		market:     p,
		engagement: e,
		priceDiff:  v.ListPrice - target,
		format:     f,
	})

	out := pricingOutcome{
		decision:  decision,
		newPrice:  decision.newPrice(v.ListPrice),
		probShift: decision.probabilityShift(),
	}
	out.transLow = out.newPrice - 1000
	out.transHigh = out.newPrice - 500
	out.grossLow = out.transLow - c.totalInvested
	out.grossHigh = out.transHigh - c.totalInvested

	timing := "Execute today."
	if decision.action == PriceHold {
		timing = "No action needed."
	}

	return out, Pricing{
		Action:                   decision.action,
		ChangeAmount:             decision.change,
		CurrentListPrice:         v.ListPrice,
		NewListPrice:             out.newPrice,
		OptimalPrice:             round2(target),
		Reasoning:                decision.reasoning,
		Timing:                   timing,
		Elasticity:               elasticityFor(v.CompetingUnits),
		ExpectedTransactionRange: PriceRange{Low: round2(out.transLow), High: round2(out.transHigh)},
		ExpectedGrossRange:       PriceRange{Low: round2(out.grossLow), High: round2(out.grossHigh)},
		ProbabilityImpact: ProbabilityImpact{
			EstimatedProbChangePct: out.probShift,
			EstimatedGrossImpact:   decision.grossImpact(),
			Explanation:            impactExplanation(decision.action, out.probShift),
		},
	}
}

package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/ajharbinger/lotpilot/internal/models"
)

type planInputs struct {
	vehicle    *models.Vehicle
	costs      costBasis
	pricing    pricingOutcome
	engagement engagementSignals
	format     formatter
}

func buildActionPlan(in planInputs) []Action {
	v := in.vehicle
	f := in.format
	newPrice := in.pricing.newPrice
	trigger := reassessDay(v)

	actions := make([]Action, 0, 5)

	switch in.pricing.decision.action {
	case PriceReduce:
		actions = append(actions, Action{
			Priority: 1,
			Title:    fmt.Sprintf("Execute %s price reduction", f.money(in.pricing.decision.change)),
			Timing:   "TODAY",
			Detail: fmt.Sprintf("Reduce from %s to %s. Estimated +%d%% sell probability. Daily hold cost: $%.2f.",
				f.money(v.ListPrice), f.money(newPrice), in.pricing.probShift, in.costs.dailyFloorplan),
			Purpose: "Reposition competitively and trigger platform re-indexing.",
		})
	case PriceIncrease:
		actions = append(actions, Action{
			Priority: 1,
			Title:    fmt.Sprintf("Increase price by %s", f.money(in.pricing.decision.change)),
			Timing:   "TODAY",
			Detail:   fmt.Sprintf("Raise to %s. Strong engagement supports it.", f.money(newPrice)),
			Purpose:  "Capture available gross.",
		})
	default:
		actions = append(actions, Action{
			Priority: 1,
			Title:    "Hold price — monitor 7 days",
			Timing:   "THIS WEEK",
			Detail:   fmt.Sprintf("Maintain %s. Reassess if views drop >15%%.", f.money(v.ListPrice)),
			Purpose:  "Avoid disrupting momentum.",
		})
	}

	highlight := v.Equipment
	if highlight == "" {
		highlight = "key features"
	}
	actions = append(actions, Action{
		Priority: 2,
		Title:    "Audit and upgrade listing",
		Timing:   "TODAY",
		Detail:   fmt.Sprintf("30+ photos. Highlight: %s. Video walkaround. Verify feature filters.", highlight),
		Purpose:  "Maximize conversion from traffic.",
	})

	if v.Leads30 > 0 {
		actions = append(actions, Action{
			Priority: 3,
			Title:    fmt.Sprintf("Re-engage all %d leads", v.Leads30),
			Timing:   "BY WEDNESDAY",
			Detail:   fmt.Sprintf("Phone first, text, email. %d recent leads within 4 hours.", v.Leads7),
			Purpose:  "Re-engagement converts 2-3x cold inbound.",
		})
	}

	floor := math.Max(newPrice-500, in.costs.totalInvested+v.MinGross)
	actions = append(actions, Action{
		Priority: 4,
		Title:    "Brief sales team",
		Timing:   "TOMORROW AM",
		Detail:   fmt.Sprintf("Sticker: %s. Floor: %s. No leading with concessions.", f.money(newPrice), f.money(floor)),
		Purpose:  "Protect gross. Prevent demoralized selling.",
	})

	actions = append(actions, Action{
		Priority: 5,
		Title:    fmt.Sprintf("Hard wholesale date: Day %d", trigger),
		Timing:   "CALENDAR NOW",
		Detail: fmt.Sprintf("<2 test drives by day %d = wholesale. No extensions. WS net: %s.",
			trigger, f.money(in.costs.wholesaleNetToday)),
		Purpose: "Remove emotional attachment to sunk costs.",
	})

	return actions
}

// riskCheck emits a risk when its guard holds
type riskCheck struct {
	when func(in planInputs) bool
	risk func(in planInputs) Risk
}

var riskChecks = []riskCheck{
	{
		when: func(in planInputs) bool {
			return strings.Contains(strings.ToLower(in.vehicle.SeasonalNotes), "compression")
		},
		risk: func(planInputs) Risk {
			return Risk{Factor: "Incentive Compression", Detail: "Newer model incentives pulling ceiling down.", Severity: "HIGH"}
		},
	},
	{
		when: func(in planInputs) bool { return in.vehicle.DaysInInventory > 45 },
		risk: func(in planInputs) Risk {
			return Risk{
				Factor:   "Stale Listing",
				Detail:   fmt.Sprintf("At %d days, many buyers have passed.", in.vehicle.DaysInInventory),
				Severity: "MEDIUM",
			}
		},
	},
	{
		when: func(in planInputs) bool { return in.vehicle.CompetingUnits > 12 },
		risk: func(in planInputs) Risk {
			return Risk{
				Factor:   "Heavy Supply",
				Detail:   fmt.Sprintf("%d units. Liquidation risk.", in.vehicle.CompetingUnits),
				Severity: "MEDIUM",
			}
		},
	},
	{
		when: func(in planInputs) bool { return in.engagement.viewTrend < -15 },
		risk: func(in planInputs) Risk {
			return Risk{
				Factor:   "Declining Views",
				Detail:   fmt.Sprintf("Down %d%% WoW.", int(math.Abs(math.Round(in.engagement.viewTrend)))),
				Severity: "HIGH",
			}
		},
	},
	{
		when: func(in planInputs) bool {
			return strings.Contains(strings.ToLower(in.vehicle.SalesNotes), "price")
		},
		risk: func(planInputs) Risk {
			return Risk{Factor: "Price Resistance", Detail: "Buyers pushing back per sales team.", Severity: "MEDIUM"}
		},
	},
}

var standardDynamics = Risk{Factor: "Standard Dynamics", Detail: "No critical risks.", Severity: "LOW"}

func assessRisks(in planInputs) []Risk {
	risks := []Risk{}
	for _, check := range riskChecks {
		if check.when(in) {
			risks = append(risks, check.risk(in))
		}
	}
	if len(risks) == 0 {
		risks = append(risks, standardDynamics)
	}
	return risks
}

// dataCompleteness is the share of optional inputs that were actually supplied
func dataCompleteness(v *models.Vehicle) float64 {
	present := []bool{
		v.Views30 > 0,
		v.Leads30 > 0,
		v.CompLow > 0,
		v.CompetingUnits > 0,
		v.WholesalePrice > 0,
		v.Equipment != "",
		v.SalesNotes != "",
	}
	n := 0
	for _, ok := range present {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(present))
}

type confidenceBand struct {
	level string
	base  int
	span  float64
}

var confidenceBands = ladder[confidenceBand]{
	match: above,
	rungs: []rung[confidenceBand]{
		{0.75, confidenceBand{"HIGH", 80, 15}},
		{0.5, confidenceBand{"MEDIUM", 50, 20}},
	},
	otherwise: confidenceBand{"LOW", 20, 30},
}

func gradeConfidence(v *models.Vehicle) Confidence {
	completeness := dataCompleteness(v)
	band := confidenceBands.pick(completeness)
	return Confidence{
		Level:            band.level,
		Percent:          band.base + int(math.Round(completeness*band.span)),
		DataCompleteness: percent(completeness),
	}
}

package analysis

import (
	"fmt"
	"math"

	"github.com/ajharbinger/lotpilot/internal/models"
)

// ExitRoute is a disposition channel for the vehicle
type ExitRoute string

const (
	ExitRetail      ExitRoute = "RETAIL"
	ExitWholesale   ExitRoute = "WHOLESALE"
	ExitDealerTrade ExitRoute = "DEALER_TRADE"
)

const (
	// retailHoldDays is the floorplan exposure assumed for a retail exit
	retailHoldDays       = 20
	wholesaleLossLimit   = -500.0
	reassessIntervalDays = 14
)

type exitInputs struct {
	vehicle *models.Vehicle
	costs   costBasis
	pricing pricingOutcome
	odds    saleOdds
	format  formatter
}

func (in exitInputs) retailExpectedGross() float64 {
	mid := (in.pricing.grossLow + in.pricing.grossHigh) / 2
	return mid - in.costs.dailyFloorplan*retailHoldDays
}

type exitRule struct {
	when   func(in exitInputs) bool
	route  ExitRoute
	reason func(in exitInputs) string
}

var exitRules = []exitRule{
	{
		when: func(in exitInputs) bool {
			weighted := in.retailExpectedGross() * in.odds.prob30
			return weighted > in.costs.wholesaleNetToday && in.pricing.grossLow > in.vehicle.MinGross*0.5
		},
		route: ExitRetail,
		reason: func(in exitInputs) string {
			spread := math.Round(in.retailExpectedGross() - in.costs.wholesaleNetToday)
			return fmt.Sprintf("Retail-wholesale spread ~%s justifies continued retail. Wholesale is the backstop.", in.format.money(spread))
		},
	},
	{
		when: func(in exitInputs) bool {
			return in.costs.wholesaleNetToday > wholesaleLossLimit
		},
		route: ExitWholesale,
		reason: func(exitInputs) string {
			return "Probability-weighted retail no longer justifies holding costs."
		},
	},
}

// forcedRetail is the loss-minimisation fallback when wholesale is too costly
var forcedRetail = exitRule{
	route: ExitRetail,
	reason: func(exitInputs) string {
		return "Wholesale produces significant loss. Aggressive retail pricing required immediately."
	},
}

func selectExitRule(in exitInputs) exitRule {
	for _, rule := range exitRules {
		if rule.when(in) {
			return rule
		}
	}
	return forcedRetail
}

func reassessDay(v *models.Vehicle) int {
	return v.DaysInInventory + reassessIntervalDays
}

func chooseExit(in exitInputs) ExitPath {
	rule := selectExitRule(in)
	trigger := reassessDay(in.vehicle)

	retailDays := "20-40 days"
	if in.pricing.decision.action != PriceHold {
		retailDays = "12-25 days"
	}
	wholesaleNet := round2(in.costs.wholesaleNetToday)

	return ExitPath{
		Optimal:   rule.route,
		Reasoning: rule.reason(in),
		Paths: []ExitOption{
			{
				Path:              ExitRetail,
				Recommended:       rule.route == ExitRetail,
				ExpectedGrossLow:  round2(in.pricing.grossLow),
				ExpectedGrossHigh: round2(in.pricing.grossHigh),
				ExpectedDays:      retailDays,
				Probability:       fmt.Sprintf("%d%%-%d%%", percent(in.odds.prob30), percent(in.odds.prob60)),
			},
			{
				Path:              ExitWholesale,
				Recommended:       rule.route == ExitWholesale,
				ExpectedGrossLow:  wholesaleNet,
				ExpectedGrossHigh: wholesaleNet,
				ExpectedDays:      "3-7 days",
				Probability:       "~95%",
			},
			{
				Path:              ExitDealerTrade,
				Recommended:       false,
				ExpectedGrossLow:  0,
				ExpectedGrossHigh: 300,
				ExpectedDays:      "7-21 days",
				Probability:       "Low",
			},
		},
		DecisionTrigger: DecisionTrigger{
			ReassessAtDay: trigger,
			Condition:     fmt.Sprintf("If <2 test drives by day %d, wholesale immediately.", trigger),
		},
	}
}

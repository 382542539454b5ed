package analysis

import (
	"fmt"
	"time"

	"github.com/ajharbinger/lotpilot/internal/models"
)

// AnalysisEngine turns a vehicle record into a pricing, probability and exit
// analysis. It holds no mutable state and is safe for concurrent use.
type AnalysisEngine struct {
	now func() time.Time
}

// Option configures an AnalysisEngine
type Option func(*AnalysisEngine)

// WithClock overrides the clock used to stamp summary.generated_at
func WithClock(now func() time.Time) Option {
	return func(e *AnalysisEngine) {
		e.now = now
	}
}

// NewAnalysisEngine creates a new analysis engine instance
func NewAnalysisEngine(opts ...Option) *AnalysisEngine {
	e := &AnalysisEngine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full analysis for a vehicle. It never fails: degenerate
// inputs fall back to neutral values. The vehicle is only read.
func (e *AnalysisEngine) Analyze(v *models.Vehicle) *Result {
	f := newFormatter()

	costs := computeCostBasis(v)
	market := placeInMarket(v)
	engagement := scoreEngagement(v)
	odds := estimateSaleOdds(v, market, engagement)

	curve, anchor := generateDailyCurve(odds, v.DaysInInventory)
	horizons := explainHorizons(v, market, engagement)

	aging := assessAging(v, costs, odds)
	priced, pricing := priceVehicle(v, costs, market, engagement, f)

	exit := chooseExit(exitInputs{
		vehicle: v,
		costs:   costs,
		pricing: priced,
		odds:    odds,
		format:  f,
	})

	plan := planInputs{
		vehicle:    v,
		costs:      costs,
		pricing:    priced,
		engagement: engagement,
		format:     f,
	}
	confidence := gradeConfidence(v)

	return &Result{
		Financials:     costs.toFinancials(),
		MarketPosition: market.toMarketPosition(v),
		Engagement:     engagement.toEngagement(v),
		SaleProbability: SaleProbability{
			Prob30Day:     percent(odds.prob30),
			Prob60Day:     percent(odds.prob60),
			Prob90Day:     percent(odds.prob90),
			ModelFactors:  odds.factors,
			Factors30:     horizons.within30,
			Factors60:     horizons.within60,
			Factors90:     horizons.within90,
			DailyCurve:    curve,
			CurveInsights: describeCurve(curve, anchor),
		},
		Aging:      aging,
		Pricing:    pricing,
		ExitPath:   exit,
		ActionPlan: buildActionPlan(plan),
		RiskAndConfidence: RiskAndConfidence{
			Risks:      assessRisks(plan),
			Confidence: confidence,
		},
		Summary: Summary{
			Vehicle:          v.Title(),
			Mileage:          v.Mileage,
			Color:            fmt.Sprintf("%s / %s", v.ExtColor, v.IntColor),
			TotalInvested:    round2(costs.totalInvested),
			CurrentList:      v.ListPrice,
			RecommendedPrice: priced.newPrice,
			PriceAction:      priced.decision.action,
			AgingZone:        aging.Zone,
			OptimalExit:      exit.Optimal,
			DaysToDecision:   aging.IrrationalityThreshold.DaysRemaining,
			Confidence:       confidence.Level,
			GeneratedAt:      e.now().UTC(),
		},
	}
}

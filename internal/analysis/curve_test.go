package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oddsFor(composite float64) saleOdds {
	return saleOdds{
		factors: ModelFactors{Composite: composite},
		prob30:  horizon30.probability(composite),
		prob60:  horizon60.probability(composite),
		prob90:  horizon90.probability(composite),
	}
}

var (
	composites = []float64{0.0992, 0.3, 0.5, 0.765, 1.0, 1.5, 2.0, 2.808}
	elapsed    = []int{0, 10, 20, 30, 45, 60, 89}
)

func TestDailyCurve_CumulativeMonotoneAndCapped(t *testing.T) {
	for _, c := range composites {
		for _, di := range elapsed {
			points, _ := generateDailyCurve(oddsFor(c), di)
			require.Len(t, points, curveDays)

			for i, p := range points {
				assert.Equal(t, i+1, p.Day)
				assert.LessOrEqual(t, p.CumulativeProbability, 98.0)
				if i > 0 {
					assert.GreaterOrEqual(t, p.CumulativeProbability, points[i-1].CumulativeProbability,
						"composite %v di %d day %d", c, di, p.Day)
				}
			}
		}
	}
}

func TestDailyCurve_ElapsedDaysAreZero(t *testing.T) {
	for _, c := range composites {
		for _, di := range elapsed {
			points, _ := generateDailyCurve(oddsFor(c), di)
			for _, p := range points {
				if p.Day <= di {
					assert.Zero(t, p.DailyProbability, "composite %v di %d day %d", c, di, p.Day)
				}
			}
		}
	}
}

func TestDailyCurve_AgreesWithDay90Milestone(t *testing.T) {
	// Past roughly day 60 the per-day cap can bind and agreement is no longer exact
	for _, c := range composites {
		for _, di := range []int{0, 10, 20, 30, 45, 60} {
			t.Run(fmt.Sprintf("c=%v/di=%d", c, di), func(t *testing.T) {
				odds := oddsFor(c)
				points, anchor := generateDailyCurve(odds, di)

				assert.Equal(t, AnchorDay90, anchor)
				assert.InDelta(t, odds.prob90*100, points[curveDays-1].CumulativeProbability, 0.1)
			})
		}
	}
}

func TestDailyCurve_UnscaledWhenFullyElapsed(t *testing.T) {
	points, anchor := generateDailyCurve(oddsFor(1.0), 90)

	assert.Equal(t, AnchorUnscaled, anchor)
	for _, p := range points {
		assert.Zero(t, p.DailyProbability)
		assert.Zero(t, p.CumulativeProbability)
	}
}

func TestCurveShape_Parameters(t *testing.T) {
	s := newCurveShape(1.0)
	assert.Equal(t, 20, s.peakDay)
	assert.InDelta(t, 0.15, s.rampSpeed, 1e-12)
	assert.InDelta(t, 0.025, s.peakHeight, 1e-12)
	assert.InDelta(t, 0.03, s.decayRate, 1e-12)

	low := newCurveShape(0.1)
	assert.Equal(t, 30, low.peakDay)
	assert.InDelta(t, 0.02+0.01/0.3, low.decayRate, 1e-12)

	high := newCurveShape(2.808)
	assert.Equal(t, 8, high.peakDay)
	assert.InDelta(t, 0.045, high.peakHeight, 1e-12)
	assert.InDelta(t, 0.225, high.rampSpeed, 1e-12)
}

func TestCurveTurningPoints(t *testing.T) {
	points := []CurvePoint{
		{Day: 1, DailyProbability: 0},
		{Day: 2, DailyProbability: 0.5},
		{Day: 3, DailyProbability: 0.9},
		{Day: 4, DailyProbability: 0.9},
		{Day: 5, DailyProbability: 0.7},
		{Day: 6, DailyProbability: 0.8},
	}
	accelEnd, decayStart := curveTurningPoints(points)
	assert.Equal(t, 4, accelEnd)
	assert.Equal(t, 5, decayStart)

	insights := describeCurve(points, AnchorDay90)
	assert.Equal(t, [2]int{4, 20}, insights.CriticalWindow)
	assert.Equal(t, 4, insights.PeakProbabilityDay)
	assert.Equal(t, AnchorDay90, insights.MilestoneAnchor)
}

func TestCurveTurningPoints_NeverDeclines(t *testing.T) {
	points := make([]CurvePoint, curveDays)
	for i := range points {
		points[i] = CurvePoint{Day: i + 1, DailyProbability: float64(i) / 100}
	}

	accelEnd, decayStart := curveTurningPoints(points)
	assert.Equal(t, curveDays, accelEnd)
	assert.Zero(t, decayStart)

	insights := describeCurve(points, AnchorDay30)
	assert.Equal(t, [2]int{curveDays, 15}, insights.CriticalWindow)
	assert.Equal(t, curveDays, insights.PeakProbabilityDay)
}

func TestCurveTurningPoints_PeakStaysBeforeDecay(t *testing.T) {
	points := []CurvePoint{
		{Day: 1, DailyProbability: 0.2},
		{Day: 2, DailyProbability: 0.6},
		{Day: 3, DailyProbability: 0.4},
		{Day: 4, DailyProbability: 0.7},
		{Day: 5, DailyProbability: 0.9},
	}
	accelEnd, decayStart := curveTurningPoints(points)
	assert.Equal(t, 2, accelEnd)
	assert.Equal(t, 3, decayStart)
}

func TestCurveTurningPoints_LateListingPeaksAfterElapsedDays(t *testing.T) {
	points, _ := generateDailyCurve(oddsFor(1.0), 50)
	accelEnd, decayStart := curveTurningPoints(points)

	assert.Equal(t, 51, accelEnd)
	assert.Equal(t, 52, decayStart)
}

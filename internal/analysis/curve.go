package analysis

import (
	"fmt"
	"math"
)

const (
	curveDays         = 90
	cumulativeCeiling = 0.98
	shapeDailyCeiling = 0.06
	scaledDailyCeil   = 0.08
)

// Milestone anchors reported with the curve
const (
	AnchorDay90    = "day_90"
	AnchorDay60    = "day_60"
	AnchorDay30    = "day_30"
	AnchorUnscaled = "unscaled"
)

// curveShape is the heuristic ramp/peak/decay profile derived from the composite factor
type curveShape struct {
	rampSpeed  float64
	peakDay    int
	peakHeight float64
	decayRate  float64
}

func newCurveShape(composite float64) curveShape {
	floored := math.Max(composite, 0.3)
	return curveShape{
		rampSpeed:  0.15 * math.Min(composite, 1.5),
		peakDay:    int(clamp(math.Round(20/floored), 8, 30)),
		peakHeight: math.Min(0.045, 0.025*composite),
		decayRate:  0.02 + 0.01/floored,
	}
}

// at returns the raw daily sale probability on a fresh-listing day
func (s curveShape) at(day int) float64 {
	if day <= s.peakDay {
		ramp := 1 / (1 + math.Exp(-s.rampSpeed*(float64(day)-float64(s.peakDay)*0.6)))
		return s.peakHeight * ramp
	}
	return s.peakHeight * math.Exp(-s.decayRate*float64(day-s.peakDay))
}

// shapeCurve is the first-stage, unscaled survival curve. Index 0 is unused so
// that index d holds day d.
type shapeCurve struct {
	conditional [curveDays + 1]float64
	cumulative  [curveDays + 1]float64
}

func buildShapeCurve(s curveShape, daysInInventory int) shapeCurve {
	var c shapeCurve
	cum := 0.0
	for day := 1; day <= curveDays; day++ {
		daily := s.at(day)
		if day <= daysInInventory {
			daily = 0
		}
		daily = clamp(daily, 0, shapeDailyCeiling)

		conditional := daily * (1 - cum)
		cum = math.Min(cumulativeCeiling, cum+conditional)

		c.conditional[day] = conditional
		c.cumulative[day] = cum
	}
	return c
}

// anchorScale picks the milestone the curve is forced to agree with. The day
// 90 milestone is preferred, falling back to 60 then 30; when every candidate
// is zero the curve is left unscaled.
func anchorScale(c shapeCurve, odds saleOdds) (float64, string) {
	anchors := []struct {
		day    int
		target float64
		name   string
	}{
		{90, odds.prob90, AnchorDay90},
		{60, odds.prob60, AnchorDay60},
		{30, odds.prob30, AnchorDay30},
	}
	for _, a := range anchors {
		if c.cumulative[a.day] > 0 {
			return a.target / c.cumulative[a.day], a.name
		}
	}
	return 1, AnchorUnscaled
}

// generateDailyCurve builds the 90-day curve in two passes: an unscaled shape
// curve, then a rescale anchored on the milestone probabilities.
func generateDailyCurve(odds saleOdds, daysInInventory int) ([]CurvePoint, string) {
	shape := buildShapeCurve(newCurveShape(odds.composite()), daysInInventory)
	scale, anchor := anchorScale(shape, odds)

	points := make([]CurvePoint, 0, curveDays)
	cum := 0.0
	for day := 1; day <= curveDays; day++ {
		scaled := clamp(shape.conditional[day]*scale, 0, scaledDailyCeil)
		cum = math.Min(cumulativeCeiling, cum+scaled)
		points = append(points, CurvePoint{
			Day:                   day,
			DailyProbability:      round2(scaled * 100),
			CumulativeProbability: round1(cum * 100),
		})
	}
	return points, anchor
}

// curveTurningPoints returns the last day of the non-decreasing prefix and the
// first day whose daily probability falls below the day before. decayStart is
// 0 when the curve never declines.
func curveTurningPoints(points []CurvePoint) (accelEnd, decayStart int) {
	prev := 0.0
	for _, p := range points {
		if p.DailyProbability < prev {
			return accelEnd, p.Day
		}
		accelEnd = p.Day
		prev = p.DailyProbability
	}
	return accelEnd, 0
}

func describeCurve(points []CurvePoint, anchor string) CurveInsights {
	accelEnd, decayStart := curveTurningPoints(points)
	windowEnd := decayStart + 15

	return CurveInsights{
		AccelerationPhase:  fmt.Sprintf("Days 1–%d: Probability builds as listing gains exposure.", accelEnd),
		PeakProbabilityDay: accelEnd,
		DecayBegins:        fmt.Sprintf("Day %d: Daily sell probability begins declining as buyer pool depletes.", decayStart),
		DecayStartDay:      decayStart,
		CriticalWindow:     [2]int{accelEnd, windowEnd},
		CriticalInsight: fmt.Sprintf(
			"The window between day %d and day %d is when this vehicle is most likely to sell. Marketing and pricing actions have maximum impact during this window.",
			accelEnd, windowEnd,
		),
		MilestoneAnchor: anchor,
	}
}

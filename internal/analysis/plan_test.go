package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIrrationalDay_WholesaleBeatsRetailToday(t *testing.T) {
	v := camry()
	v.WholesalePrice = 21000

	c := computeCostBasis(v)
	odds := estimateSaleOdds(v, placeInMarket(v), scoreEngagement(v))
	aging := assessAging(v, c, odds)

	assert.Equal(t, v.DaysInInventory, aging.IrrationalityThreshold.Day)
	assert.Zero(t, aging.IrrationalityThreshold.DaysRemaining)
}

func TestIrrationalDay_RetailUnderwater(t *testing.T) {
	v := camry()
	v.ListPrice = 19000

	c := computeCostBasis(v)
	assert.Equal(t, v.DaysInInventory, irrationalDay(v, c, 0.3))
}

func TestIrrationalDay_RunsToHorizon(t *testing.T) {
	v := camry()
	c := computeCostBasis(v)

	assert.Equal(t, v.DaysInInventory+irrationalityHorizon-1, irrationalDay(v, c, 0.3))
}

func TestErosionTable(t *testing.T) {
	v := camry()
	rows := erosionTable(v, computeCostBasis(v))

	require.Len(t, rows, 4)
	assert.Equal(t, 50, rows[0].TotalDays)
	assert.Equal(t, 140, rows[3].TotalDays)
	assert.Equal(t, 186.71, rows[0].FloorplanAccrued)
	assert.InDelta(t, rows[0].GrossAtSticker-1000, rows[0].RealisticGrossLow, 0.011)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i].GrossAtSticker, rows[i-1].GrossAtSticker)
	}
}

func TestAgingZones(t *testing.T) {
	assert.Equal(t, "HEALTHY", agingZones.pick(30).name)
	assert.Equal(t, "AT-RISK", agingZones.pick(31).name)
	assert.Equal(t, "AT-RISK", agingZones.pick(60).name)
	assert.Equal(t, "DANGER", agingZones.pick(61).name)
}

func exitFor(wholesalePrice, listPrice float64) ExitPath {
	v := camry()
	v.WholesalePrice = wholesalePrice
	v.ListPrice = listPrice

	c := computeCostBasis(v)
	market := placeInMarket(v)
	engagement := scoreEngagement(v)
	odds := estimateSaleOdds(v, market, engagement)
	priced, _ := priceVehicle(v, c, market, engagement, newFormatter())

	return chooseExit(exitInputs{vehicle: v, costs: c, pricing: priced, odds: odds, format: newFormatter()})
}

func TestChooseExit(t *testing.T) {
	t.Run("retail when weighted retail beats wholesale", func(t *testing.T) {
		exit := exitFor(17000, 22500)
		assert.Equal(t, ExitRetail, exit.Optimal)
		assert.Contains(t, exit.Reasoning, "justifies continued retail")
		require.Len(t, exit.Paths, 3)
		assert.True(t, exit.Paths[0].Recommended)
		assert.Equal(t, "20-40 days", exit.Paths[0].ExpectedDays)
		assert.Equal(t, "27%-46%", exit.Paths[0].Probability)
		assert.False(t, exit.Paths[2].Recommended)
	})

	t.Run("wholesale when it is close to break-even", func(t *testing.T) {
		exit := exitFor(18600, 20500)
		assert.Equal(t, ExitWholesale, exit.Optimal)
		assert.True(t, exit.Paths[1].Recommended)
	})

	t.Run("forced retail when wholesale loses heavily", func(t *testing.T) {
		exit := exitFor(12000, 19500)
		assert.Equal(t, ExitRetail, exit.Optimal)
		assert.Equal(t, "Wholesale produces significant loss. Aggressive retail pricing required immediately.", exit.Reasoning)
	})

	exit := exitFor(17000, 22500)
	assert.Equal(t, 64, exit.DecisionTrigger.ReassessAtDay)
	assert.Equal(t, "If <2 test drives by day 64, wholesale immediately.", exit.DecisionTrigger.Condition)
}

func TestAssessRisks(t *testing.T) {
	v := camry()
	v.SeasonalNotes = "Spring incentive COMPRESSION on new units"
	v.SalesNotes = "Two buyers balked at price"
	v.Views7 = 20

	in := planInputs{vehicle: v, engagement: scoreEngagement(v)}
	risks := assessRisks(in)

	factors := make([]string, 0, len(risks))
	for _, r := range risks {
		factors = append(factors, r.Factor)
	}
	assert.Equal(t, []string{"Incentive Compression", "Stale Listing", "Heavy Supply", "Declining Views", "Price Resistance"}, factors)
	assert.Equal(t, "Down 71% WoW.", risks[3].Detail)
}

func TestBuildActionPlan(t *testing.T) {
	v := pricingVehicle(23800, 40)
	v.Equipment = "Sunroof, Honda Sensing"

	c := computeCostBasis(v)
	market := placeInMarket(v)
	engagement := scoreEngagement(v)
	priced, _ := priceVehicle(v, c, market, engagement, newFormatter())

	actions := buildActionPlan(planInputs{vehicle: v, costs: c, pricing: priced, engagement: engagement, format: newFormatter()})

	// no leads, so the re-engagement step is skipped
	require.Len(t, actions, 4)
	assert.Equal(t, 1, actions[0].Priority)
	assert.Equal(t, "Execute $1,500 price reduction", actions[0].Title)
	assert.Equal(t, "Reduce from $23,800 to $22,300. Estimated +15% sell probability. Daily hold cost: $3.87.", actions[0].Detail)
	assert.Contains(t, actions[1].Detail, "Highlight: Sunroof, Honda Sensing.")
	assert.Equal(t, 4, actions[2].Priority)
	assert.Equal(t, "Sticker: $22,300. Floor: $21,800. No leading with concessions.", actions[2].Detail)
	assert.Equal(t, "Hard wholesale date: Day 54", actions[3].Title)
}

func TestGradeConfidence(t *testing.T) {
	v := camry()
	v.WholesalePrice = 17000
	v.Equipment = "Nav"
	v.SalesNotes = "Clean"

	conf := gradeConfidence(v)
	assert.Equal(t, "HIGH", conf.Level)
	assert.Equal(t, 95, conf.Percent)
	assert.Equal(t, 100, conf.DataCompleteness)
}

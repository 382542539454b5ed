package analysis

import (
	"fmt"
	"math"

	"github.com/ajharbinger/lotpilot/internal/models"
)

const (
	// retailTransactionCost is the flat cost deducted from a retail deal
	retailTransactionCost = 750.0
	irrationalityHorizon  = 150
	dailyProbabilityDecay = 0.98
)

var erosionHorizons = []int{0, 30, 60, 90}

type agingZone struct {
	name   string
	detail string
}

var agingZones = ladder[agingZone]{
	match: atMost,
	rungs: []rung[agingZone]{
		{30, agingZone{"HEALTHY", "Within target velocity window."}},
		{60, agingZone{"AT-RISK", "Approaching danger zone. Active intervention required."}},
	},
	otherwise: agingZone{"DANGER", "Past target velocity. Immediate action needed."},
}

func erosionTable(v *models.Vehicle, c costBasis) []ErosionRow {
	rows := make([]ErosionRow, 0, len(erosionHorizons))
	for _, add := range erosionHorizons {
		total := v.DaysInInventory + add
		fp := c.floorplanAt(total)
		gross := c.potentialGross - fp
		rows = append(rows, ErosionRow{
			AdditionalDays:     add,
			TotalDays:          total,
			FloorplanAccrued:   round2(fp),
			GrossAtSticker:     round2(gross),
			RealisticGrossLow:  round2(gross - 1000),
			RealisticGrossHigh: round2(gross - 500),
		})
	}
	return rows
}

// irrationalDay scans forward from today for the first day on which the
// probability-weighted retail outcome drops below the wholesale alternative,
// or retail itself goes underwater. When no such day exists within the
// horizon, the last scanned day is returned.
func irrationalDay(v *models.Vehicle, c costBasis, prob30 float64) int {
	start := v.DaysInInventory
	day := start
	for ; day < start+irrationalityHorizon; day++ {
		fp := c.floorplanAt(day)
		retailNet := c.potentialGross - fp - retailTransactionCost
		dayProb := clamp(prob30*math.Pow(dailyProbabilityDecay, float64(day-start)), 0.05, 0.95)
		weightedRetail := retailNet * dayProb
		wholesaleAtDay := v.WholesalePrice - c.totalInvested - fp

		if weightedRetail < math.Max(wholesaleAtDay, c.wholesaleNetToday) || retailNet < 0 {
			return day
		}
	}
	return day - 1
}

func assessAging(v *models.Vehicle, c costBasis, odds saleOdds) Aging {
	zone := agingZones.pick(float64(v.DaysInInventory))
	day := irrationalDay(v, c, odds.prob30)
	remaining := day - v.DaysInInventory
	if remaining < 0 {
		remaining = 0
	}

	return Aging{
		Zone:            zone.name,
		ZoneDetail:      zone.detail,
		DaysInInventory: v.DaysInInventory,
		ErosionTable:    erosionTable(v, c),
		IrrationalityThreshold: IrrationalityThreshold{
			Day:           day,
			DaysRemaining: remaining,
			Explanation:   fmt.Sprintf("Beyond day %d, holding becomes economically irrational. ~%d days remain.", day, remaining),
		},
	}
}

package analysis

import "github.com/ajharbinger/lotpilot/internal/models"

// costBasis carries the unrounded financial figures every later stage reads
type costBasis struct {
	totalInvested     float64
	potentialGross    float64
	dailyFloorplan    float64
	floorplanAccrued  float64
	currentNetGross   float64
	wholesaleNetToday float64
}

func computeCostBasis(v *models.Vehicle) costBasis {
	c := costBasis{
		totalInvested: v.TotalInvested(),
	}
	c.potentialGross = v.ListPrice - c.totalInvested
	c.dailyFloorplan = v.DailyFloorplan()
	c.floorplanAccrued = c.dailyFloorplan * float64(v.DaysInInventory)
	c.currentNetGross = c.potentialGross - c.floorplanAccrued
	c.wholesaleNetToday = v.WholesalePrice - c.totalInvested - c.floorplanAccrued
	return c
}

// floorplanAt returns the floorplan cost accrued after the given number of days
func (c costBasis) floorplanAt(days int) float64 {
	return c.dailyFloorplan * float64(days)
}

func (c costBasis) toFinancials() Financials {
	return Financials{
		TotalInvested:           round2(c.totalInvested),
		PotentialGrossAtSticker: round2(c.potentialGross),
		DailyFloorplanCost:      round2(c.dailyFloorplan),
		FloorplanAccruedToDate:  round2(c.floorplanAccrued),
		CurrentNetGross:         round2(c.currentNetGross),
		WholesaleNetToday:       round2(c.wholesaleNetToday),
	}
}

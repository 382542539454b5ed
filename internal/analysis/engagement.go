package analysis

import (
	"math"

	"github.com/ajharbinger/lotpilot/internal/models"
)

// weeksPerMonth converts a 30-day view count into an average weekly rate
const weeksPerMonth = 4.3

var viewTrendLabels = ladder[string]{
	match: above,
	rungs: []rung[string]{
		{10, "Accelerating"},
		{-10, "Stable"},
	},
	otherwise: "Declining",
}

type engagementSignals struct {
	viewTrend  float64
	leadToView float64
	tdToLead   float64
	score      float64
}

func scoreEngagement(v *models.Vehicle) engagementSignals {
	var s engagementSignals

	var avgWeeklyViews float64
	if v.Views30 > 0 {
		avgWeeklyViews = float64(v.Views30) / weeksPerMonth
	}
	if avgWeeklyViews > 0 {
		s.viewTrend = (float64(v.Views7) - avgWeeklyViews) / avgWeeklyViews * 100
	}
	if v.Views30 > 0 {
		s.leadToView = float64(v.Leads30) / float64(v.Views30) * 100
	}
	if v.Leads30 > 0 {
		s.tdToLead = float64(v.TestDrives30) / float64(v.Leads30) * 100
	}
	s.score = float64(v.Leads7)*3 + float64(v.TestDrives7)*10 + float64(v.Views7)*0.2
	return s
}

func (s engagementSignals) toEngagement(v *models.Vehicle) Engagement {
	return Engagement{
		Views7:              v.Views7,
		Views30:             v.Views30,
		Leads7:              v.Leads7,
		Leads30:             v.Leads30,
		TestDrives7:         v.TestDrives7,
		TestDrives30:        v.TestDrives30,
		ViewTrendPct:        int(math.Round(s.viewTrend)),
		ViewTrendLabel:      viewTrendLabels.pick(s.viewTrend),
		LeadToViewRate:      round2(s.leadToView),
		TestDriveToLeadRate: round2(s.tdToLead),
		EngagementScore:     round2(s.score),
	}
}

package analysis

import "time"

// Result is the full analysis tree produced for one vehicle. A new tree is
// built on every call; nothing in it aliases the input record.
type Result struct {
	Financials        Financials        `json:"financials"`
	MarketPosition    MarketPosition    `json:"market_position"`
	Engagement        Engagement        `json:"engagement"`
	SaleProbability   SaleProbability   `json:"sale_probability"`
	Aging             Aging             `json:"aging"`
	Pricing           Pricing           `json:"pricing"`
	ExitPath          ExitPath          `json:"exit_path"`
	ActionPlan        []Action          `json:"action_plan"`
	RiskAndConfidence RiskAndConfidence `json:"risk_and_confidence"`
	Summary           Summary           `json:"summary"`
}

// Financials holds the scalar cost and gross figures, rounded to cents
type Financials struct {
	TotalInvested           float64 `json:"total_invested"`
	PotentialGrossAtSticker float64 `json:"potential_gross_at_sticker"`
	DailyFloorplanCost      float64 `json:"daily_floorplan_cost"`
	FloorplanAccruedToDate  float64 `json:"floorplan_accrued_to_date"`
	CurrentNetGross         float64 `json:"current_net_gross"`
	WholesaleNetToday       float64 `json:"wholesale_net_today"`
}

// PriceRange is a low/high pair of dollar amounts
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// MarketPosition places the list price inside the comp band
type MarketPosition struct {
	Percentile     int        `json:"percentile"`
	Label          string     `json:"label"`
	CompRange      PriceRange `json:"comp_range"`
	CompetingUnits int        `json:"competing_units"`
	DemandSignal   string     `json:"demand_signal"`
}

// Engagement summarizes listing telemetry
type Engagement struct {
	Views7              int     `json:"views_7"`
	Views30             int     `json:"views_30"`
	Leads7              int     `json:"leads_7"`
	Leads30             int     `json:"leads_30"`
	TestDrives7         int     `json:"test_drives_7"`
	TestDrives30        int     `json:"test_drives_30"`
	ViewTrendPct        int     `json:"view_trend_pct"`
	ViewTrendLabel      string  `json:"view_trend_label"`
	LeadToViewRate      float64 `json:"lead_to_view_rate"`
	TestDriveToLeadRate float64 `json:"test_drive_to_lead_rate"`
	EngagementScore     float64 `json:"engagement_score"`
}

// ModelFactors exposes the multiplicative adjustments behind the milestone probabilities
type ModelFactors struct {
	Demand      float64 `json:"demand"`
	Competition float64 `json:"competition"`
	Aging       float64 `json:"aging"`
	Engagement  float64 `json:"engagement"`
	Price       float64 `json:"price"`
	Composite   float64 `json:"composite"`
}

// SaleProbability holds milestone probabilities (percent) and the daily curve
type SaleProbability struct {
	Prob30Day     int           `json:"prob_30_day"`
	Prob60Day     int           `json:"prob_60_day"`
	Prob90Day     int           `json:"prob_90_day"`
	ModelFactors  ModelFactors  `json:"model_factors"`
	Factors30     []string      `json:"factors_30"`
	Factors60     []string      `json:"factors_60"`
	Factors90     []string      `json:"factors_90"`
	DailyCurve    []CurvePoint  `json:"daily_curve"`
	CurveInsights CurveInsights `json:"curve_insights"`
}

// CurvePoint is one day of the 90-day curve. Day is relative to a fresh
// listing, not a calendar date.
type CurvePoint struct {
	Day                   int     `json:"day"`
	DailyProbability      float64 `json:"daily_probability"`
	CumulativeProbability float64 `json:"cumulative_probability"`
}

// CurveInsights describes the shape of the daily curve
type CurveInsights struct {
	AccelerationPhase  string `json:"acceleration_phase"`
	PeakProbabilityDay int    `json:"peak_probability_day"`
	DecayBegins        string `json:"decay_begins"`
	DecayStartDay      int    `json:"decay_start_day"`
	CriticalWindow     [2]int `json:"critical_window"`
	CriticalInsight    string `json:"critical_insight"`
	MilestoneAnchor    string `json:"milestone_anchor"`
}

// ErosionRow is one horizon of the cost-erosion table
type ErosionRow struct {
	AdditionalDays     int     `json:"additional_days"`
	TotalDays          int     `json:"total_days"`
	FloorplanAccrued   float64 `json:"floorplan_accrued"`
	GrossAtSticker     float64 `json:"gross_at_sticker"`
	RealisticGrossLow  float64 `json:"realistic_gross_low"`
	RealisticGrossHigh float64 `json:"realistic_gross_high"`
}

// IrrationalityThreshold is the day holding for retail stops paying off
type IrrationalityThreshold struct {
	Day           int    `json:"day"`
	DaysRemaining int    `json:"days_remaining"`
	Explanation   string `json:"explanation"`
}

// Aging holds the aging zone, erosion table and irrationality threshold
type Aging struct {
	Zone                   string                 `json:"zone"`
	ZoneDetail             string                 `json:"zone_detail"`
	DaysInInventory        int                    `json:"days_in_inventory"`
	ErosionTable           []ErosionRow           `json:"erosion_table"`
	IrrationalityThreshold IrrationalityThreshold `json:"irrationality_threshold"`
}

// Elasticity describes how price-sensitive the segment is
type Elasticity struct {
	Level  string `json:"level"`
	Detail string `json:"detail"`
}

// ProbabilityImpact estimates how the price action moves the 30-day probability
type ProbabilityImpact struct {
	EstimatedProbChangePct int     `json:"estimated_prob_change_pct"`
	EstimatedGrossImpact   float64 `json:"estimated_gross_impact"`
	Explanation            string  `json:"explanation"`
}

// Pricing is the price decision
type Pricing struct {
	Action                   PriceAction       `json:"action"`
	ChangeAmount             float64           `json:"change_amount"`
	CurrentListPrice         float64           `json:"current_list_price"`
	NewListPrice             float64           `json:"new_list_price"`
	OptimalPrice             float64           `json:"optimal_price"`
	Reasoning                string            `json:"reasoning"`
	Timing                   string            `json:"timing"`
	Elasticity               Elasticity        `json:"elasticity"`
	ExpectedTransactionRange PriceRange        `json:"expected_transaction_range"`
	ExpectedGrossRange       PriceRange        `json:"expected_gross_range"`
	ProbabilityImpact        ProbabilityImpact `json:"probability_impact"`
}

// ExitOption is one candidate exit path
type ExitOption struct {
	Path              ExitRoute `json:"path"`
	Recommended       bool      `json:"recommended"`
	ExpectedGrossLow  float64   `json:"expected_gross_low"`
	ExpectedGrossHigh float64   `json:"expected_gross_high"`
	ExpectedDays      string    `json:"expected_days"`
	Probability       string    `json:"probability"`
}

// DecisionTrigger is the fixed reassessment checkpoint
type DecisionTrigger struct {
	ReassessAtDay int    `json:"reassess_at_day"`
	Condition     string `json:"condition"`
}

// ExitPath is the retail/wholesale decision
type ExitPath struct {
	Optimal         ExitRoute       `json:"optimal"`
	Reasoning       string          `json:"reasoning"`
	Paths           []ExitOption    `json:"paths"`
	DecisionTrigger DecisionTrigger `json:"decision_trigger"`
}

// Action is one prioritized step of the action plan
type Action struct {
	Priority int    `json:"priority"`
	Title    string `json:"title"`
	Timing   string `json:"timing"`
	Detail   string `json:"detail"`
	Purpose  string `json:"purpose"`
}

// Risk is a flagged risk factor
type Risk struct {
	Factor   string `json:"factor"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}

// Confidence grades the completeness of the input data
type Confidence struct {
	Level            string `json:"level"`
	Percent          int    `json:"percent"`
	DataCompleteness int    `json:"data_completeness"`
}

// RiskAndConfidence groups risks with the data-confidence grade
type RiskAndConfidence struct {
	Risks      []Risk     `json:"risks"`
	Confidence Confidence `json:"confidence"`
}

// Summary is the headline view of the analysis
type Summary struct {
	Vehicle          string      `json:"vehicle"`
	Mileage          int         `json:"mileage"`
	Color            string      `json:"color"`
	TotalInvested    float64     `json:"total_invested"`
	CurrentList      float64     `json:"current_list"`
	RecommendedPrice float64     `json:"recommended_price"`
	PriceAction      PriceAction `json:"price_action"`
	AgingZone        string      `json:"aging_zone"`
	OptimalExit      ExitRoute   `json:"optimal_exit"`
	DaysToDecision   int         `json:"days_to_decision"`
	Confidence       string      `json:"confidence"`
	GeneratedAt      time.Time   `json:"generated_at"`
}

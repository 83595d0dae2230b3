package model

// FundamentalSnapshot collects every input the fundamental scorer needs for
// one symbol. Pointer fields are nil when the provider did not supply the
// value; a nil input makes the affected pillar fail with "data not available"
// rather than aborting the analysis.
type FundamentalSnapshot struct {
	CurrentPrice           *float64
	High52                 *float64
	Low52                  *float64
	ProfitMargin           *float64
	OperatingMargin        *float64
	QuarterlyRevenueChange *float64
	PositiveGrowthPct      *float64 // % of positive QoQ revenue quarters over trailing 5y
	Revenue                *float64
	TotalDebt              *float64
	OperatingCashFlow      *float64
	EarningsDate           string // empty when no upcoming earnings date is known
}

// PillarResult is the outcome of a single fundamental-health check.
type PillarResult struct {
	Name        string
	Passed      bool
	Explanation string
}

// FundamentalVerdict is the overall result of the five-pillar evaluation.
type FundamentalVerdict struct {
	Status   string // "PASS" or "FAIL"
	Score    int    // number of pillars passed
	Required int    // pillars needed to pass overall
	Pillars  map[string]PillarResult
}

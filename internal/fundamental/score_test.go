package fundamental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScope/internal/model"
)

func f64(v float64) *float64 { return &v }

// healthySnapshot passes all five pillars.
func healthySnapshot() *model.FundamentalSnapshot {
	return &model.FundamentalSnapshot{
		CurrentPrice:           f64(90),
		High52:                 f64(100), // 10% decline, limit 30%
		ProfitMargin:           f64(0.15),
		OperatingMargin:        f64(0.12),
		QuarterlyRevenueChange: f64(0.06),
		Revenue:                f64(100e9),
		TotalDebt:              f64(40e9), // revenue/debt 2.5, OCF/debt 0.625
		OperatingCashFlow:      f64(25e9),
		EarningsDate:           "2026-10-28",
	}
}

func TestScoreAllPillarsPass(t *testing.T) {
	v := Score(healthySnapshot())

	assert.Equal(t, "PASS", v.Status)
	assert.Equal(t, 5, v.Score)
	assert.Equal(t, RequiredPillars, v.Required)
	for name, p := range v.Pillars {
		assert.True(t, p.Passed, "pillar %s", name)
	}
}

func TestScoreFourOfFivePasses(t *testing.T) {
	s := healthySnapshot()
	s.EarningsDate = "" // forward pillar fails

	v := Score(s)
	assert.Equal(t, "PASS", v.Status)
	assert.Equal(t, 4, v.Score)
	assert.False(t, v.Pillars[PillarForward].Passed)
}

func TestScoreThreeOfFiveFails(t *testing.T) {
	s := healthySnapshot()
	s.EarningsDate = ""
	s.ProfitMargin = f64(0.05) // profitability fails too

	v := Score(s)
	assert.Equal(t, "FAIL", v.Status)
	assert.Equal(t, 3, v.Score)
}

func TestMissingDataFailsPillarNotAnalysis(t *testing.T) {
	v := Score(&model.FundamentalSnapshot{})

	assert.Equal(t, "FAIL", v.Status)
	assert.Equal(t, 0, v.Score)
	for name, p := range v.Pillars {
		assert.False(t, p.Passed, "pillar %s", name)
		assert.NotEmpty(t, p.Explanation)
	}
}

func TestZeroDebtFailsBalanceSheet(t *testing.T) {
	s := healthySnapshot()
	s.TotalDebt = f64(0)

	v := Score(s)
	p := v.Pillars[PillarBalanceSheet]
	assert.False(t, p.Passed, "undefined ratios must not be a free pass")
	assert.Equal(t, "data not available", p.Explanation)
}

func TestGrowthPassesOnEitherBranch(t *testing.T) {
	s := healthySnapshot()
	s.QuarterlyRevenueChange = f64(0.01) // below 5%
	s.PositiveGrowthPct = f64(75)        // above 60%

	v := Score(s)
	assert.True(t, v.Pillars[PillarGrowth].Passed, "consistent history alone should pass")

	s.PositiveGrowthPct = f64(40)
	v = Score(s)
	assert.False(t, v.Pillars[PillarGrowth].Passed)
}

func TestMarketPositionBoundary(t *testing.T) {
	s := healthySnapshot()
	s.CurrentPrice = f64(70)
	s.High52 = f64(100) // exactly 30% decline

	v := Score(s)
	assert.True(t, v.Pillars[PillarMarketPosition].Passed, "30% is within the limit")

	s.CurrentPrice = f64(69.9)
	v = Score(s)
	assert.False(t, v.Pillars[PillarMarketPosition].Passed)
}

func TestBuildSnapshotQoQFallback(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	stmt := &model.FinancialStatement{
		Dates: []time.Time{
			now.AddDate(0, -6, 0),
			now.AddDate(0, -3, 0),
		},
		Rows: map[string][]float64{
			"Total Revenue": {100, 110},
		},
	}

	s := BuildSnapshot(&model.QuoteSnapshot{}, stmt, "", now)
	require.NotNil(t, s.QuarterlyRevenueChange)
	assert.InDelta(t, 0.10, *s.QuarterlyRevenueChange, 1e-9)
}

func TestBuildSnapshotPrefersQuoteQoQ(t *testing.T) {
	now := time.Now()
	stmt := &model.FinancialStatement{
		Dates: []time.Time{now.AddDate(0, -6, 0), now.AddDate(0, -3, 0)},
		Rows:  map[string][]float64{"Total Revenue": {100, 110}},
	}
	q := &model.QuoteSnapshot{QuarterlyRevenueChange: f64(0.02)}

	s := BuildSnapshot(q, stmt, "", now)
	require.NotNil(t, s.QuarterlyRevenueChange)
	assert.InDelta(t, 0.02, *s.QuarterlyRevenueChange, 1e-9)
}

func TestPercentPositiveQuarters(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for i := 4; i >= 0; i-- {
		dates = append(dates, now.AddDate(0, -3*i, 0))
	}
	// Changes: +, -, +, + → 75% positive.
	revenues := []float64{100, 110, 105, 112, 120}

	pct := PercentPositiveQuarters(dates, revenues, now)
	require.NotNil(t, pct)
	assert.InDelta(t, 75.0, *pct, 1e-9)
}

func TestPercentPositiveQuartersWindowCutoff(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{
		now.AddDate(-7, 0, 0), // outside the 5y window
		now.AddDate(-6, 0, 0), // outside
		now.AddDate(0, -3, 0),
	}
	revenues := []float64{50, 40, 120}

	pct := PercentPositiveQuarters(dates, revenues, now)
	require.Nil(t, pct, "only one in-window quarter leaves nothing to compare")
}

func TestPercentPositiveQuartersTooFew(t *testing.T) {
	now := time.Now()
	assert.Nil(t, PercentPositiveQuarters([]time.Time{now}, []float64{100}, now))
	assert.Nil(t, PercentPositiveQuarters(nil, nil, now))
}

package fundamental

import (
	"time"

	"StockScope/internal/model"
)

// RequiredPillars is how many of the five pillars must pass for an overall
// PASS verdict.
const RequiredPillars = 4

// Score evaluates the five pillars against a snapshot. It is a pure
// function: missing inputs produce defined failing pillars, never an error.
func Score(s *model.FundamentalSnapshot) *model.FundamentalVerdict {
	pillars := map[string]model.PillarResult{
		PillarProfitability:  scoreProfitability(s),
		PillarGrowth:         scoreGrowth(s),
		PillarBalanceSheet:   scoreBalanceSheet(s),
		PillarMarketPosition: scoreMarketPosition(s),
		PillarForward:        scoreForward(s),
	}

	passed := 0
	for _, p := range pillars {
		if p.Passed {
			passed++
		}
	}

	status := "FAIL"
	if passed >= RequiredPillars {
		status = "PASS"
	}

	return &model.FundamentalVerdict{
		Status:   status,
		Score:    passed,
		Required: RequiredPillars,
		Pillars:  pillars,
	}
}

// BuildSnapshot assembles the scorer input from the quote snapshot, the
// quarterly statement and the earnings date. The QoQ revenue change falls
// back to the two most recent statement quarters when the quote did not
// carry it, and the positive-quarters ratio is derived from the statement.
func BuildSnapshot(q *model.QuoteSnapshot, stmt *model.FinancialStatement, earningsDate string, now time.Time) *model.FundamentalSnapshot {
	s := &model.FundamentalSnapshot{EarningsDate: earningsDate}
	if q != nil {
		s.CurrentPrice = q.CurrentPrice
		s.High52 = q.High52
		s.Low52 = q.Low52
		s.ProfitMargin = q.ProfitMargin
		s.OperatingMargin = q.OperatingMargin
		s.QuarterlyRevenueChange = q.QuarterlyRevenueChange
		s.Revenue = q.Revenue
		s.TotalDebt = q.TotalDebt
		s.OperatingCashFlow = q.OperatingCashFlow
	}

	if stmt != nil {
		if s.QuarterlyRevenueChange == nil {
			s.QuarterlyRevenueChange = latestQoQChange(stmt.Revenue())
		}
		s.PositiveGrowthPct = PercentPositiveQuarters(stmt.Dates, stmt.Revenue(), now)
	}
	return s
}

// latestQoQChange computes the revenue change of the newest quarter versus
// the one before it. revenues are ordered oldest first.
func latestQoQChange(revenues []float64) *float64 {
	n := len(revenues)
	if n < 2 || revenues[n-2] == 0 {
		return nil
	}
	change := (revenues[n-1] - revenues[n-2]) / abs(revenues[n-2])
	return &change
}

// PercentPositiveQuarters restricts the quarterly revenue series to the
// trailing five years by date, computes quarter-over-quarter percent
// changes, and returns the percentage that are strictly positive. Nil when
// fewer than two in-window quarters exist.
func PercentPositiveQuarters(dates []time.Time, revenues []float64, now time.Time) *float64 {
	if len(dates) != len(revenues) || len(dates) < 2 {
		return nil
	}
	cutoff := now.AddDate(-5, 0, 0)

	var inWindow []float64
	for i, d := range dates {
		if d.Before(cutoff) {
			continue
		}
		inWindow = append(inWindow, revenues[i])
	}
	if len(inWindow) < 2 {
		return nil
	}

	positive, total := 0, 0
	for i := 1; i < len(inWindow); i++ {
		if inWindow[i-1] == 0 {
			continue
		}
		total++
		if (inWindow[i]-inWindow[i-1])/abs(inWindow[i-1]) > 0 {
			positive++
		}
	}
	if total == 0 {
		return nil
	}
	pct := float64(positive) / float64(total) * 100
	return &pct
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

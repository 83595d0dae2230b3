package fundamental

import (
	"fmt"

	"StockScope/internal/model"
)

// Fixed screening thresholds. These are named constants rather than config
// so every analysis run scores against the same bar.
const (
	MinProfitMargin  = 0.10 // 10% profit margin
	MinOperMargin    = 0.10 // 10% operating margin
	MinQtrRevGrowth  = 0.05 // 5% QoQ revenue growth
	MinPositiveQtrs  = 60.0 // 60% of trailing-5y quarters positive
	MinRevenueToDebt = 2.0  // revenue / total debt
	MinOCFToDebt     = 0.50 // operating cash flow / total debt
	Max52WeekDecline = 0.30 // 30% max decline from 52-week high
)

// Pillar names.
const (
	PillarProfitability  = "profitability"
	PillarGrowth         = "growth"
	PillarBalanceSheet   = "balance_sheet"
	PillarMarketPosition = "market_position"
	PillarForward        = "forward"
)

// PillarOrder is the canonical display order.
var PillarOrder = []string{
	PillarProfitability,
	PillarGrowth,
	PillarBalanceSheet,
	PillarMarketPosition,
	PillarForward,
}

const notAvailable = "data not available"

// scoreProfitability requires both margins at or above 10%.
func scoreProfitability(s *model.FundamentalSnapshot) model.PillarResult {
	r := model.PillarResult{Name: PillarProfitability}
	if s.ProfitMargin == nil || s.OperatingMargin == nil {
		r.Explanation = notAvailable
		return r
	}
	r.Passed = *s.ProfitMargin >= MinProfitMargin && *s.OperatingMargin >= MinOperMargin
	r.Explanation = fmt.Sprintf("profit margin %.1f%% (need ≥%.0f%%) and operating margin %.1f%% (need ≥%.0f%%)",
		*s.ProfitMargin*100, MinProfitMargin*100, *s.OperatingMargin*100, MinOperMargin*100)
	return r
}

// scoreGrowth passes on either a strong latest quarter or a consistent
// multi-year record of positive quarters.
func scoreGrowth(s *model.FundamentalSnapshot) model.PillarResult {
	r := model.PillarResult{Name: PillarGrowth}
	if s.QuarterlyRevenueChange == nil && s.PositiveGrowthPct == nil {
		r.Explanation = notAvailable
		return r
	}

	qtrOK := s.QuarterlyRevenueChange != nil && *s.QuarterlyRevenueChange >= MinQtrRevGrowth
	histOK := s.PositiveGrowthPct != nil && *s.PositiveGrowthPct >= MinPositiveQtrs
	r.Passed = qtrOK || histOK

	parts := ""
	if s.QuarterlyRevenueChange != nil {
		parts = fmt.Sprintf("QoQ revenue change %.1f%% (need ≥%.0f%%)", *s.QuarterlyRevenueChange*100, MinQtrRevGrowth*100)
	}
	if s.PositiveGrowthPct != nil {
		if parts != "" {
			parts += " or "
		}
		parts += fmt.Sprintf("positive quarters %.1f%% (need ≥%.0f%%)", *s.PositiveGrowthPct, MinPositiveQtrs)
	}
	r.Explanation = parts
	return r
}

// scoreBalanceSheet checks revenue and operating cash flow against total
// debt. Missing or zero debt makes the ratios undefined, which counts as a
// fail rather than a free pass.
func scoreBalanceSheet(s *model.FundamentalSnapshot) model.PillarResult {
	r := model.PillarResult{Name: PillarBalanceSheet}
	if s.TotalDebt == nil || *s.TotalDebt == 0 || s.Revenue == nil || s.OperatingCashFlow == nil {
		r.Explanation = notAvailable
		return r
	}
	revToDebt := *s.Revenue / *s.TotalDebt
	ocfToDebt := *s.OperatingCashFlow / *s.TotalDebt
	r.Passed = revToDebt >= MinRevenueToDebt && ocfToDebt >= MinOCFToDebt
	r.Explanation = fmt.Sprintf("revenue/debt %.2f (need ≥%.1f) and OCF/debt %.2f (need ≥%.2f)",
		revToDebt, MinRevenueToDebt, ocfToDebt, MinOCFToDebt)
	return r
}

// scoreMarketPosition requires the current price to sit within 30% of the
// 52-week high.
func scoreMarketPosition(s *model.FundamentalSnapshot) model.PillarResult {
	r := model.PillarResult{Name: PillarMarketPosition}
	if s.CurrentPrice == nil || s.High52 == nil || *s.High52 <= 0 {
		r.Explanation = notAvailable
		return r
	}
	decline := (*s.High52 - *s.CurrentPrice) / *s.High52
	r.Passed = decline <= Max52WeekDecline
	r.Explanation = fmt.Sprintf("decline from 52-week high %.1f%% (limit %.0f%%)", decline*100, Max52WeekDecline*100)
	return r
}

// scoreForward passes when an upcoming earnings date is known; the presence
// of the date is the whole signal.
func scoreForward(s *model.FundamentalSnapshot) model.PillarResult {
	r := model.PillarResult{Name: PillarForward}
	if s.EarningsDate == "" {
		r.Explanation = "no upcoming earnings date"
		return r
	}
	r.Passed = true
	r.Explanation = "upcoming earnings: " + s.EarningsDate
	return r
}

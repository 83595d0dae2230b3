package model

import "time"

// PriceBar represents a single candlestick bar.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// QuoteSnapshot holds the lightweight per-symbol quote fields the upstream
// provider returns in one call. Pointer fields are nil when the provider
// did not supply the value.
type QuoteSnapshot struct {
	CurrentPrice           *float64
	High52                 *float64
	Low52                  *float64
	ProfitMargin           *float64
	OperatingMargin        *float64
	QuarterlyRevenueChange *float64
	Revenue                *float64
	TotalDebt              *float64
	OperatingCashFlow      *float64
}

// FinancialStatement holds quarterly statement rows keyed by line-item name
// (e.g. "Total Revenue"). Dates and row values are aligned by index and
// ordered oldest first.
type FinancialStatement struct {
	Dates []time.Time
	Rows  map[string][]float64
}

// Revenue returns the "Total Revenue" row, or nil when absent.
func (s *FinancialStatement) Revenue() []float64 {
	if s == nil || s.Rows == nil {
		return nil
	}
	return s.Rows["Total Revenue"]
}

package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScope/internal/analyzer"
	"StockScope/internal/cache"
	"StockScope/internal/marketdata"
	"StockScope/internal/model"
	"StockScope/internal/retry"
)

func f64(v float64) *float64 { return &v }

func sampleReport(t *testing.T) *analyzer.Report {
	t.Helper()
	now := time.Now()
	mock := &marketdata.MockProvider{
		Bars: marketdata.GenerateBars(100, 300),
		Snapshot: &model.QuoteSnapshot{
			CurrentPrice:           f64(90),
			High52:                 f64(100),
			ProfitMargin:           f64(0.15),
			OperatingMargin:        f64(0.12),
			QuarterlyRevenueChange: f64(0.06),
			Revenue:                f64(100e9),
			TotalDebt:              f64(40e9),
			OperatingCashFlow:      f64(25e9),
		},
		EarningsDate: now.AddDate(0, 2, 0).Format("2006-01-02"),
		Expirations: []string{
			time.Date(now.Year(), 12, 18, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		},
	}
	p := retry.Default()
	p.Sleep = func(time.Duration) {}
	a := analyzer.New(mock, cache.New(time.Minute, 8), nil, p, nil)

	r, err := a.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)
	return r
}

func TestFormatFullReport(t *testing.T) {
	out := Format(sampleReport(t))

	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "Close:")
	assert.Contains(t, out, "RSI(14):")
	assert.Contains(t, out, "Base price")
	assert.Contains(t, out, "trend projection")
	assert.Contains(t, out, "Fundamentals: PASS")
	assert.Contains(t, out, "Near-the-money calls")
	assert.NotContains(t, out, "Incomplete sections")
	assert.NotContains(t, out, "Social sentiment", "no sentiment section without data")
}

func TestFormatDegradedReport(t *testing.T) {
	r := sampleReport(t)
	r.Fundamentals = nil
	r.Options = nil
	r.Problems = map[string]string{
		"fundamentals": "fundamental data unavailable: no data found",
		"options":      "options unavailable: upstream down",
	}

	out := Format(r)
	assert.NotContains(t, out, "Fundamentals:")
	assert.Contains(t, out, "Incomplete sections")
	assert.Contains(t, out, "fundamentals: fundamental data unavailable")
	assert.Contains(t, out, "options: options unavailable")
}

func TestFormatSentimentSection(t *testing.T) {
	r := sampleReport(t)
	r.Sentiment = &model.SentimentResult{BullishRatio: 0.75, Bullish: 30, Bearish: 10}

	out := Format(r)
	assert.Contains(t, out, "75% bullish")
	assert.Contains(t, out, "30 bullish / 10 bearish")
}

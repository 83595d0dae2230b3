package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"StockScope/internal/analyzer"
	"StockScope/internal/fundamental"
	"StockScope/internal/model"
)

// Format renders a full analysis report as plain text for the terminal.
func Format(r *analyzer.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 %s | %s\n\n", r.Symbol, r.GeneratedAt.Format("2006-01-02 15:04")))

	writePriceSection(&b, r)
	writeForecastSection(&b, r.Forecast)
	writeFundamentalSection(&b, r.Fundamentals)
	writeOptionsSection(&b, r.Options)
	writeSentimentSection(&b, r.Sentiment)

	if len(r.Problems) > 0 {
		b.WriteString("⚠️ Incomplete sections:\n")
		names := make([]string, 0, len(r.Problems))
		for name := range r.Problems {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("  %s: %s\n", name, r.Problems[name]))
		}
	}

	return b.String()
}

func writePriceSection(b *strings.Builder, r *analyzer.Report) {
	s := r.Indicators
	if s == nil || len(s.Bars) == 0 {
		return
	}
	last := len(s.Bars) - 1

	b.WriteString(fmt.Sprintf("Close: %.2f\n", s.Bars[last].Close))
	b.WriteString(fmt.Sprintf("Support: %s | Resistance: %s | RSI(14): %s\n",
		num(s.Support[last]), num(s.Resistance[last]), num(s.RSI[last])))
	b.WriteString(fmt.Sprintf("MA20: %s | MA50: %s | MA200: %s\n",
		num(s.MA20[last]), num(s.MA50[last]), num(s.MA200[last])))
	if !math.IsNaN(r.BasePrice) {
		b.WriteString(fmt.Sprintf("Base price (20-day): %.2f\n", r.BasePrice))
	}
	b.WriteString("\n")
}

func writeForecastSection(b *strings.Builder, f *model.ForecastResult) {
	if f == nil || math.IsNaN(f.PredictedPrice) {
		return
	}
	b.WriteString("🔮 1-year trend projection:\n")
	b.WriteString(fmt.Sprintf("  Predicted price: %.2f (%+.1f%%)\n", f.PredictedPrice, f.PriceChangePct))
	b.WriteString(fmt.Sprintf("  Confidence: %.0f%% | Slope: %+.4f/day\n\n", f.Confidence, f.TrendSlope))
}

func writeFundamentalSection(b *strings.Builder, v *model.FundamentalVerdict) {
	if v == nil {
		return
	}
	mark := "❌"
	if v.Status == "PASS" {
		mark = "✅"
	}
	b.WriteString(fmt.Sprintf("%s Fundamentals: %s (%d/%d pillars, need %d)\n",
		mark, v.Status, v.Score, len(v.Pillars), v.Required))
	for _, name := range fundamental.PillarOrder {
		p, ok := v.Pillars[name]
		if !ok {
			continue
		}
		check := "✗"
		if p.Passed {
			check = "✓"
		}
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", check, p.Name, p.Explanation))
	}
	b.WriteString("\n")
}

func writeOptionsSection(b *strings.Builder, o *model.OptionsResult) {
	if o == nil {
		return
	}
	b.WriteString(fmt.Sprintf("📈 Near-the-money calls (strikes %s):\n", o.StrikeRange))

	for _, exp := range []string{o.CurrentYearExp, o.NextYearExp} {
		if exp == "" {
			continue
		}
		quotes, ok := o.Expirations[exp]
		if !ok {
			continue
		}
		if quotes.Err != "" {
			b.WriteString(fmt.Sprintf("  %s: unavailable (%s)\n", exp, quotes.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %d contracts\n", exp, quotes.Count))
		for _, c := range quotes.Options {
			b.WriteString(fmt.Sprintf("    strike %.2f  last %.2f  bid %.2f  ask %.2f  IV %.1f%%  vol %d  OI %d\n",
				c.Strike, c.LastPrice, c.Bid, c.Ask, c.ImpliedVolatility*100, c.Volume, c.OpenInterest))
		}
	}
	b.WriteString("\n")
}

func writeSentimentSection(b *strings.Builder, s *model.SentimentResult) {
	if s == nil {
		return
	}
	b.WriteString(fmt.Sprintf("💬 Social sentiment: %.0f%% bullish (%d bullish / %d bearish)\n\n",
		s.BullishRatio*100, s.Bullish, s.Bearish))
}

// num renders a possibly-NaN value, since early bars have no full window.
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

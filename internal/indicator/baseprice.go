package indicator

import "math"

// BasePrice derives a heuristic entry price from the trailing 20 bars: the
// average of up to three candidates — the mean support level, the minimum
// low, and the lowest close among oversold bars (RSI < 30). Candidates that
// are undefined are skipped; with fewer than 20 bars total the result is
// NaN.
func BasePrice(s *Series) float64 {
	if s == nil || len(s.Bars) < rangeWindow {
		return math.NaN()
	}
	start := len(s.Bars) - rangeWindow

	var supportSum float64
	supportCount := 0
	minLow := math.Inf(1)
	rsiBuy := math.NaN()

	for i := start; i < len(s.Bars); i++ {
		if !math.IsNaN(s.Support[i]) {
			supportSum += s.Support[i]
			supportCount++
		}
		if s.Bars[i].Low < minLow {
			minLow = s.Bars[i].Low
		}
		if s.RSI[i] < 30 { // NaN compares false
			if math.IsNaN(rsiBuy) || s.Bars[i].Close < rsiBuy {
				rsiBuy = s.Bars[i].Close
			}
		}
	}

	avgSupport := math.NaN()
	if supportCount > 0 {
		avgSupport = supportSum / float64(supportCount)
	}

	var sum float64
	count := 0
	for _, c := range []float64{avgSupport, minLow, rsiBuy} {
		if !math.IsNaN(c) && !math.IsInf(c, 0) {
			sum += c
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return round2(sum / float64(count))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

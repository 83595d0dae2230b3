package indicator

import (
	"math"

	"StockScope/internal/model"
)

const (
	forecastLookback   = 500 // ~2 years of daily bars
	trailingWindow     = 72
	trailingMinPeriods = 36
	forecastHorizon    = 252 // ~1 trading year
	minValidPoints     = 20
)

// Forecast fits an ordinary-least-squares line to the 72-bar trailing
// average of the close over up to the last 500 bars and projects it 252
// bars forward. The projected trailing average is scaled by the current
// close-to-average ratio to land back on a price level; confidence is the
// R² of the fit mapped onto [10,95]. With fewer than 72 bars, or fewer
// than 20 valid trailing-average points, the forecast is undefined.
func Forecast(bars []model.PriceBar) *model.ForecastResult {
	undefined := &model.ForecastResult{
		PredictedPrice:     math.NaN(),
		Confidence:         0,
		TrendSlope:         0,
		CurrentTrailingAvg: math.NaN(),
	}

	if len(bars) < trailingWindow {
		return undefined
	}

	start := len(bars) - forecastLookback
	if start < 0 {
		start = 0
	}
	closes := make([]float64, 0, len(bars)-start)
	for _, b := range bars[start:] {
		closes = append(closes, b.Close)
	}

	trailing := trailingMean(closes, trailingWindow, trailingMinPeriods)

	y := make([]float64, 0, len(trailing))
	for _, v := range trailing {
		if !math.IsNaN(v) {
			y = append(y, v)
		}
	}
	if len(y) < minValidPoints {
		return undefined
	}

	slope, intercept, r2 := fitLine(y)

	currentAvg := trailing[len(trailing)-1]
	currentPrice := closes[len(closes)-1]

	ratio := 1.0
	if currentAvg > 0 {
		ratio = currentPrice / currentAvg
	}

	predictedAvg := slope*float64(len(y)+forecastHorizon) + intercept
	predicted := predictedAvg * ratio

	confidence := r2 * 100
	if confidence > 95 {
		confidence = 95
	}
	if confidence < 10 {
		confidence = 10
	}

	return &model.ForecastResult{
		PredictedPrice:     predicted,
		Confidence:         confidence,
		TrendSlope:         slope,
		CurrentTrailingAvg: currentAvg,
		CurrentPrice:       currentPrice,
		PriceChangePct:     (predicted - currentPrice) / currentPrice * 100,
	}
}

// trailingMean computes the rolling mean over the trailing window, NaN
// until minPeriods observations are available.
func trailingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for t := range values {
		sum += values[t]
		if t >= window {
			sum -= values[t-window]
		}
		count := t + 1
		if count > window {
			count = window
		}
		if count >= minPeriods {
			out[t] = sum / float64(count)
		} else {
			out[t] = math.NaN()
		}
	}
	return out
}

// fitLine performs an OLS fit of y against x = 0..n-1 and returns the
// slope, intercept and R².
func fitLine(y []float64) (slope, intercept, r2 float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range y {
		pred := slope*float64(i) + intercept
		ssRes += (v - pred) * (v - pred)
		ssTot += (v - meanY) * (v - meanY)
	}
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return slope, intercept, r2
}

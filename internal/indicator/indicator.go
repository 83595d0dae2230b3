package indicator

import (
	"math"

	"github.com/markcheno/go-talib"

	"StockScope/internal/model"
)

const (
	// rangeWindow is the trailing window for support/resistance.
	rangeWindow = 20
	// rsiWindow is the trailing window for the RSI gain/loss means.
	rsiWindow = 14
	// rsiEpsilon guards the RS division against a zero loss mean.
	rsiEpsilon = 1e-10
)

// Series carries the OHLCV bars plus every computed indicator column,
// aligned by index. Undefined values (warmup windows) are NaN for the
// hand-computed columns; the talib columns keep talib's zero-filled warmup.
type Series struct {
	Bars []model.PriceBar

	Support    []float64
	Resistance []float64
	RSI        []float64

	MA20  []float64
	MA50  []float64
	MA100 []float64
	MA200 []float64

	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64

	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64

	VolumeMA    []float64
	VolumeRatio []float64
}

// Compute calculates all indicator columns for the given bars.
func Compute(bars []model.PriceBar) *Series {
	n := len(bars)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	s := &Series{
		Bars:       bars,
		Support:    rollingMin(lows, rangeWindow),
		Resistance: rollingMax(highs, rangeWindow),
		RSI:        RollingMeanRSI(closes, rsiWindow),
		MA20:       sma(closes, 20),
		MA50:       sma(closes, 50),
		MA100:      sma(closes, 100),
		MA200:      sma(closes, 200),
		VolumeMA:   sma(volumes, 20),
	}

	if n >= 35 { // slow EMA + signal warmup
		s.MACD, s.MACDSignal, s.MACDHist = talib.Macd(closes, 12, 26, 9)
	} else {
		s.MACD, s.MACDSignal, s.MACDHist = nanSlice(n), nanSlice(n), nanSlice(n)
	}

	if n >= 20 {
		s.BBUpper, s.BBMiddle, s.BBLower = talib.BBands(closes, 20, 2, 2, talib.SMA)
	} else {
		s.BBUpper, s.BBMiddle, s.BBLower = nanSlice(n), nanSlice(n), nanSlice(n)
	}

	s.VolumeRatio = make([]float64, n)
	for i := range volumes {
		if s.VolumeMA[i] > 0 {
			s.VolumeRatio[i] = volumes[i] / s.VolumeMA[i]
		} else {
			s.VolumeRatio[i] = math.NaN()
		}
	}

	return s
}

// RollingMeanRSI computes RSI using a simple rolling mean of gains and
// losses over the trailing window (minimum one observation) instead of
// Wilder's exponential smoothing. The rolling-mean form is deliberate, and
// the ε-guarded division keeps the output inside [0,100] even for all-gain
// series. Index 0 has no price change and is NaN.
func RollingMeanRSI(closes []float64, window int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n < 2 {
		return out
	}

	gains := make([]float64, n) // index i holds the change from i-1 to i
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for t := 1; t < n; t++ {
		start := t - window + 1
		if start < 1 {
			start = 1
		}
		var gainSum, lossSum float64
		for i := start; i <= t; i++ {
			gainSum += gains[i]
			lossSum += losses[i]
		}
		count := float64(t - start + 1)
		rs := (gainSum / count) / (lossSum/count + rsiEpsilon)
		out[t] = 100 - 100/(1+rs)
	}
	return out
}

// rollingMin computes the trailing-window minimum with a shrinking window
// at the start of the series (minimum one observation).
func rollingMin(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for t := range values {
		start := t - window + 1
		if start < 0 {
			start = 0
		}
		m := math.Inf(1)
		for i := start; i <= t; i++ {
			if values[i] < m {
				m = values[i]
			}
		}
		out[t] = m
	}
	return out
}

func rollingMax(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for t := range values {
		start := t - window + 1
		if start < 0 {
			start = 0
		}
		m := math.Inf(-1)
		for i := start; i <= t; i++ {
			if values[i] > m {
				m = values[i]
			}
		}
		out[t] = m
	}
	return out
}

func sma(values []float64, period int) []float64 {
	if len(values) < period {
		return nanSlice(len(values))
	}
	return talib.Sma(values, period)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

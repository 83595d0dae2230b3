package model

// ForecastResult is the linear-trend 1-year price projection. PredictedPrice
// and CurrentTrailingAvg are NaN when there is not enough history to fit a
// trend; Confidence is then 0.
type ForecastResult struct {
	PredictedPrice     float64
	Confidence         float64 // 0..100, R² of the fit scaled to [10,95]
	TrendSlope         float64
	CurrentTrailingAvg float64
	CurrentPrice       float64
	PriceChangePct     float64
}

// SentimentResult summarizes the social message stream for a symbol.
type SentimentResult struct {
	BullishRatio float64 // bullish / (bullish + bearish)
	Bullish      int
	Bearish      int
}

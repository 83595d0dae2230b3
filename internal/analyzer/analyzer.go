package analyzer

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"StockScope/internal/cache"
	"StockScope/internal/fundamental"
	"StockScope/internal/indicator"
	"StockScope/internal/marketdata"
	"StockScope/internal/model"
	"StockScope/internal/options"
	"StockScope/internal/ratelimit"
	"StockScope/internal/retry"
	"StockScope/internal/sentiment"
	"StockScope/pkg/logger"
)

// historyPeriod is the default lookback for a full analysis.
const historyPeriod = "2y"

// Report is the full structured result for one symbol. Sections degrade
// independently: a missing section has its failure recorded in Problems
// while the rest of the report stays usable.
type Report struct {
	Symbol      string
	GeneratedAt time.Time

	Indicators *indicator.Series
	BasePrice  float64
	Forecast   *model.ForecastResult

	Fundamentals *model.FundamentalVerdict
	Options      *model.OptionsResult
	Sentiment    *model.SentimentResult

	Problems map[string]string // section name -> user-facing failure message
}

// Analyzer orchestrates a per-symbol analysis run. The chart cache and the
// per-host token buckets are shared process-wide and are injected by the
// caller rather than reached through globals.
type Analyzer struct {
	provider  marketdata.Provider
	chartData *cache.DataCache
	limiter   *ratelimit.TokenBucket
	policy    retry.Policy
	social    *sentiment.Client // nil disables the sentiment section
	evaluator options.Evaluator
	now       func() time.Time
}

// New creates an Analyzer. social may be nil.
func New(provider marketdata.Provider, chartData *cache.DataCache, limiter *ratelimit.TokenBucket, policy retry.Policy, social *sentiment.Client) *Analyzer {
	return &Analyzer{
		provider:  provider,
		chartData: chartData,
		limiter:   limiter,
		policy:    policy,
		social:    social,
		now:       time.Now,
	}
}

// Analyze runs the full pipeline for one symbol: history and indicators
// first (a failure here fails the whole job), then fundamentals, options
// and sentiment, each of which degrades on its own.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*Report, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	client := marketdata.NewClient(symbol, a.provider, a.limiter, a.policy)
	report := &Report{
		Symbol:      symbol,
		GeneratedAt: a.now(),
		Problems:    map[string]string{},
	}

	bars, err := client.History(ctx, historyPeriod, "1d")
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, marketdata.ErrNoPriceData
	}

	report.Indicators = indicator.Compute(bars)
	report.BasePrice = indicator.BasePrice(report.Indicators)
	report.Forecast = indicator.Forecast(bars)

	a.fundamentalSection(ctx, client, report)
	a.optionsSection(ctx, client, report, bars)
	a.sentimentSection(ctx, symbol, report)

	return report, nil
}

func (a *Analyzer) fundamentalSection(ctx context.Context, client *marketdata.Client, report *Report) {
	quote, err := client.Quote(ctx)
	if err != nil {
		logger.Warn("fundamentals unavailable", zap.String("symbol", report.Symbol), zap.Error(err))
		report.Problems["fundamentals"] = fmt.Sprintf("fundamental data unavailable: %v", err)
		return
	}

	stmt, err := client.QuarterlyFinancials(ctx)
	if err != nil {
		logger.Warn("quarterly financials unavailable", zap.String("symbol", report.Symbol), zap.Error(err))
		stmt = nil // score with what the quote carries
	}

	earningsDate, err := client.Calendar(ctx)
	if err != nil {
		logger.Warn("earnings calendar unavailable", zap.String("symbol", report.Symbol), zap.Error(err))
		earningsDate = ""
	}

	snap := fundamental.BuildSnapshot(quote, stmt, earningsDate, a.now())
	report.Fundamentals = fundamental.Score(snap)
}

func (a *Analyzer) optionsSection(ctx context.Context, client *marketdata.Client, report *Report, bars []model.PriceBar) {
	price := lastClose(bars)
	if quote, err := client.Quote(ctx); err == nil && quote.CurrentPrice != nil {
		price = *quote.CurrentPrice
	}
	if math.IsNaN(price) || price <= 0 {
		report.Problems["options"] = "options skipped: no current price"
		return
	}

	ev := a.evaluator
	res, err := ev.Evaluate(ctx, client, price)
	if err != nil {
		logger.Warn("options unavailable", zap.String("symbol", report.Symbol), zap.Error(err))
		report.Problems["options"] = fmt.Sprintf("options unavailable: %v", err)
		return
	}
	report.Options = res
}

func (a *Analyzer) sentimentSection(ctx context.Context, symbol string, report *Report) {
	if a.social == nil {
		return
	}
	res, err := a.social.Fetch(ctx, symbol)
	if err != nil {
		logger.Debug("sentiment unavailable", zap.String("symbol", symbol), zap.Error(err))
		report.Problems["sentiment"] = "social sentiment unavailable"
		return
	}
	report.Sentiment = res
}

// ChartHistory returns the indicator-augmented series for a chart period,
// consulting the shared TTL cache first so UI refreshes don't refetch.
func (a *Analyzer) ChartHistory(ctx context.Context, symbol, period string) (*indicator.Series, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	if bars, ok := a.chartData.Get(symbol, period); ok {
		return indicator.Compute(bars), nil
	}

	client := marketdata.NewClient(symbol, a.provider, a.limiter, a.policy)
	bars, err := client.History(ctx, period, "1d")
	if err != nil {
		return nil, fmt.Errorf("fetch chart history for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, marketdata.ErrNoPriceData
	}

	a.chartData.Set(symbol, period, bars)
	return indicator.Compute(bars), nil
}

func lastClose(bars []model.PriceBar) float64 {
	if len(bars) == 0 {
		return math.NaN()
	}
	return bars[len(bars)-1].Close
}

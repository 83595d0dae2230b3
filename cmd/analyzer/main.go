package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"StockScope/internal/analyzer"
	"StockScope/internal/cache"
	"StockScope/internal/config"
	"StockScope/internal/httpx"
	"StockScope/internal/marketdata"
	"StockScope/internal/ratelimit"
	"StockScope/internal/report"
	"StockScope/internal/retry"
	"StockScope/internal/scheduler"
	"StockScope/internal/sentiment"
	"StockScope/pkg/logger"
)

func main() {
	symbols := flag.String("symbol", "", "comma-separated symbols to analyze once")
	watch := flag.Bool("watch", false, "run the watchlist refresh scheduler")
	cfgPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load() // best effort, env may come from the shell
	logger.Init()
	defer logger.Sync()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}

	a := buildAnalyzer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case *symbols != "":
		runOnce(ctx, a, cfg, strings.Split(*symbols, ","))
	case *watch:
		runWatch(ctx, cancel, a, cfg)
	default:
		fmt.Fprintln(os.Stderr, "usage: analyzer -symbol AAPL[,MSFT,...] | analyzer -watch")
		os.Exit(2)
	}
}

// buildAnalyzer wires the shared pieces explicitly: one chart cache, one
// token bucket per upstream host, one retry policy.
func buildAnalyzer(cfg *config.Config) *analyzer.Analyzer {
	timeout := time.Duration(cfg.DataSource.TimeoutSec) * time.Second
	httpClient := httpx.New(timeout, cfg.DataSource.Proxy)

	provider := marketdata.NewYahooProvider(cfg.DataSource.BaseURL, httpClient)
	logger.Info("data source ready", zap.String("provider", provider.Name()))

	chartData := cache.New(time.Duration(cfg.Cache.ChartTTLSeconds)*time.Second, cfg.Cache.MaxSize)
	marketBucket := ratelimit.New(cfg.RateLimit.MarketRPS, 0)

	policy := retry.Default()
	policy.MaxAttempts = cfg.Retry.MaxAttempts
	policy.MinBackoff = time.Duration(cfg.Retry.BaseMs) * time.Millisecond
	policy.MaxBackoff = time.Duration(cfg.Retry.MaxSec) * time.Second

	var social *sentiment.Client
	if cfg.Sentiment.Enabled {
		sentimentBucket := ratelimit.New(cfg.RateLimit.SentimentRPS, 0)
		social = sentiment.New(cfg.Sentiment.BaseURL, httpClient, sentimentBucket, policy)
	}

	return analyzer.New(provider, chartData, marketBucket, policy, social)
}

func runOnce(ctx context.Context, a *analyzer.Analyzer, cfg *config.Config, symbols []string) {
	pool := analyzer.NewPool(a, int64(cfg.Workers))
	for _, symbol := range symbols {
		pool.Submit(ctx, strings.TrimSpace(symbol))
	}
	go pool.Wait()

	failed := 0
	for outcome := range pool.Results() {
		if outcome.Err != nil {
			failed++
			logger.Error("analysis failed", zap.String("symbol", outcome.Symbol), zap.Error(outcome.Err))
			continue
		}
		fmt.Println(report.Format(outcome.Report))
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runWatch(ctx context.Context, cancel context.CancelFunc, a *analyzer.Analyzer, cfg *config.Config) {
	if len(cfg.Watchlist) == 0 {
		logger.Fatal("watch mode requires a non-empty watchlist")
	}

	sched := scheduler.NewScheduler(ctx, a, cfg.Watchlist)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		logger.Fatal("register cron task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		go sched.RunRefreshNow()
	}

	logger.Info("watch mode running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping")
	cancel()
}

package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockScope/internal/analyzer"
	"StockScope/pkg/logger"
)

// Scheduler keeps the chart cache warm for a watchlist so interactive
// lookups hit cached bars instead of the upstream API.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  *analyzer.Analyzer
	Watchlist []string
	Periods   []string
	Ctx       context.Context
}

// NewScheduler creates a Scheduler refreshing the given symbols.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  a,
		Watchlist: watchlist,
		Periods:   []string{"1y"},
		Ctx:       ctx,
	}
}

// Register installs the refresh task under the given cron expression
// (six-field, with seconds).
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started", zap.Int("watchlist", len(s.Watchlist)))
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	logger.Info("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (manual trigger).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	logger.Info("refreshing watchlist charts")
	for _, symbol := range s.Watchlist {
		for _, period := range s.Periods {
			if _, err := s.Analyzer.ChartHistory(s.Ctx, symbol, period); err != nil {
				logger.Error("refresh chart", zap.String("symbol", symbol), zap.String("period", period), zap.Error(err))
			}
		}
	}
}

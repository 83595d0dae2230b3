package analyzer

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers bounds concurrent analyses. Two concurrent runs keeps the
// upstream hosts comfortable even before the token bucket kicks in.
const DefaultWorkers = 2

// Outcome pairs a finished report with its error for channel delivery.
type Outcome struct {
	Symbol string
	Report *Report
	Err    error
}

// Pool runs analyses with bounded concurrency. Submission order is not
// completion order; results arrive on Results as they finish.
type Pool struct {
	analyzer *Analyzer
	sem      *semaphore.Weighted
	results  chan Outcome
	wg       sync.WaitGroup
}

// NewPool creates a pool with the given concurrency limit. workers <= 0
// falls back to DefaultWorkers.
func NewPool(a *Analyzer, workers int64) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		analyzer: a,
		sem:      semaphore.NewWeighted(workers),
		results:  make(chan Outcome),
	}
}

// Submit queues one symbol. It returns immediately; the analysis runs once
// a slot frees up. A context cancelled while waiting for a slot yields an
// Outcome carrying the context error.
func (p *Pool) Submit(ctx context.Context, symbol string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(ctx, 1); err != nil {
			p.results <- Outcome{Symbol: symbol, Err: err}
			return
		}
		defer p.sem.Release(1)

		report, err := p.analyzer.Analyze(ctx, symbol)
		p.results <- Outcome{Symbol: symbol, Report: report, Err: err}
	}()
}

// Results delivers one Outcome per submitted symbol.
func (p *Pool) Results() <-chan Outcome { return p.results }

// Wait blocks until all submitted work has delivered its outcome, then
// closes Results. Call after the last Submit.
func (p *Pool) Wait() {
	p.wg.Wait()
	close(p.results)
}

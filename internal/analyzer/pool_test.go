package analyzer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScope/internal/cache"
	"StockScope/internal/marketdata"
	"StockScope/internal/model"
	"StockScope/internal/retry"
)

// slowProvider wraps a MockProvider to track how many history calls run at
// the same time.
type slowProvider struct {
	*marketdata.MockProvider
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (p *slowProvider) History(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error) {
	cur := p.inFlight.Add(1)
	for {
		prev := p.peak.Load()
		if cur <= prev || p.peak.CompareAndSwap(prev, cur) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	p.inFlight.Add(-1)
	return p.MockProvider.History(ctx, symbol, period, interval)
}

func TestPoolDeliversAllOutcomes(t *testing.T) {
	a := newTestAnalyzer(healthyMock())
	pool := NewPool(a, 2)
	ctx := context.Background()

	symbols := []string{"AAPL", "MSFT", "NVDA", "BAD SYMBOL"}
	for _, s := range symbols {
		pool.Submit(ctx, s)
	}
	go pool.Wait()

	got := map[string]Outcome{}
	for o := range pool.Results() {
		got[o.Symbol] = o
	}

	require.Len(t, got, len(symbols))
	assert.NoError(t, got["AAPL"].Err)
	assert.NotNil(t, got["AAPL"].Report)
	assert.Error(t, got["BAD SYMBOL"].Err)
	assert.Nil(t, got["BAD SYMBOL"].Report)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	slow := &slowProvider{MockProvider: healthyMock()}
	p := retry.Default()
	p.Sleep = func(time.Duration) {}
	a := New(slow, cache.New(time.Minute, 8), nil, p, nil)

	pool := NewPool(a, 2)
	ctx := context.Background()
	for _, s := range []string{"A", "B", "C", "D", "E", "F"} {
		pool.Submit(ctx, s)
	}
	go pool.Wait()
	for range pool.Results() {
	}

	assert.LessOrEqual(t, slow.peak.Load(), int32(2), "no more than two analyses in flight")
}

func TestPoolCancelledWhileQueued(t *testing.T) {
	slow := &slowProvider{MockProvider: healthyMock()}
	p := retry.Default()
	p.Sleep = func(time.Duration) {}
	a := New(slow, cache.New(time.Minute, 8), nil, p, nil)
	pool := NewPool(a, 1)

	pool.Submit(context.Background(), "AAPL")
	time.Sleep(5 * time.Millisecond) // let the first job take the only slot

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	pool.Submit(cancelled, "MSFT")
	go pool.Wait()

	got := map[string]Outcome{}
	for o := range pool.Results() {
		got[o.Symbol] = o
	}
	assert.NoError(t, got["AAPL"].Err)
	assert.ErrorIs(t, got["MSFT"].Err, context.Canceled)
}

func TestPoolDefaultWorkers(t *testing.T) {
	pool := NewPool(newTestAnalyzer(healthyMock()), 0)
	require.NotNil(t, pool)

	pool.Submit(context.Background(), "AAPL")
	go pool.Wait()
	o := <-pool.Results()
	assert.NoError(t, o.Err)
}

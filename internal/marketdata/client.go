package marketdata

import (
	"context"
	"sync"

	"StockScope/internal/model"
	"StockScope/internal/ratelimit"
	"StockScope/internal/retry"
)

// Client is a symbol-scoped façade over a Provider. Every accessor first
// consults a per-instance call memo (no TTL — the client lives only for the
// duration of one analysis run), then acquires a token from the shared
// per-provider bucket, then runs the upstream call under the retry policy.
//
// This memo is a second cache tier on purpose: the external DataCache is
// keyed by user-visible (symbol, timeframe) with a TTL for chart refreshes,
// while the memo removes redundant upstream calls inside a single
// multi-step analysis where price, fundamentals and options overlap.
type Client struct {
	symbol   string
	provider Provider
	limiter  *ratelimit.TokenBucket
	policy   retry.Policy

	mu   sync.Mutex
	memo map[string]interface{}
}

// NewClient creates a client for one symbol. limiter is shared across all
// clients hitting the same provider host.
func NewClient(symbol string, provider Provider, limiter *ratelimit.TokenBucket, policy retry.Policy) *Client {
	return &Client{
		symbol:   symbol,
		provider: provider,
		limiter:  limiter,
		policy:   policy,
		memo:     make(map[string]interface{}),
	}
}

// Symbol returns the symbol this client is scoped to.
func (c *Client) Symbol() string { return c.symbol }

// throttled is the memo → throttle → retry pipeline shared by every
// accessor.
func throttled[T any](c *Client, key string, fn func() (T, error)) (T, error) {
	c.mu.Lock()
	if v, ok := c.memo[key]; ok {
		c.mu.Unlock()
		return v.(T), nil
	}
	c.mu.Unlock()

	if c.limiter != nil {
		c.limiter.Acquire()
	}

	v, err := retry.Do(c.policy, fn)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.memo[key] = v
	c.mu.Unlock()
	return v, nil
}

func (c *Client) History(ctx context.Context, period, interval string) ([]model.PriceBar, error) {
	return throttled(c, "history:"+period+":"+interval, func() ([]model.PriceBar, error) {
		return c.provider.History(ctx, c.symbol, period, interval)
	})
}

func (c *Client) Quote(ctx context.Context) (*model.QuoteSnapshot, error) {
	return throttled(c, "quote", func() (*model.QuoteSnapshot, error) {
		return c.provider.Quote(ctx, c.symbol)
	})
}

func (c *Client) QuarterlyFinancials(ctx context.Context) (*model.FinancialStatement, error) {
	return throttled(c, "quarterly_financials", func() (*model.FinancialStatement, error) {
		return c.provider.QuarterlyFinancials(ctx, c.symbol)
	})
}

func (c *Client) OptionExpirations(ctx context.Context) ([]string, error) {
	return throttled(c, "options", func() ([]string, error) {
		return c.provider.OptionExpirations(ctx, c.symbol)
	})
}

func (c *Client) OptionChain(ctx context.Context, expiration string) (*model.OptionChain, error) {
	return throttled(c, "option_chain:"+expiration, func() (*model.OptionChain, error) {
		return c.provider.OptionChain(ctx, c.symbol, expiration)
	})
}

func (c *Client) Calendar(ctx context.Context) (string, error) {
	return throttled(c, "calendar", func() (string, error) {
		return c.provider.Calendar(ctx, c.symbol)
	})
}

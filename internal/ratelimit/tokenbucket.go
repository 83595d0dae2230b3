package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket is a blocking token bucket limiter.
// - rate: tokens per second
// - capacity: maximum tokens the bucket can hold (burst), defaults to rate
//
// The mutex is held for the whole Acquire call, including the wait for a
// token. Concurrent acquirers therefore serialize, which puts a hard floor
// on the interval between upstream requests no matter how many goroutines
// share the bucket. There is no cancellation: a blocked Acquire returns
// only once a token has been consumed.
type TokenBucket struct {
	rate     float64
	capacity float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// New creates a bucket that starts full. A non-positive capacity defaults
// to rate, so a 2 rps bucket allows a burst of 2.
func New(rate, capacity float64) *TokenBucket {
	if rate <= 0 {
		rate = 0.0000001
	}
	if capacity <= 0 {
		capacity = rate
	}
	return &TokenBucket{
		rate:     rate,
		capacity: capacity,
		tokens:   capacity,
		last:     time.Now(),
	}
}

// Acquire blocks until one token is available, then consumes it.
func (b *TokenBucket) Acquire() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	if b.tokens < 1 {
		deficit := 1 - b.tokens
		time.Sleep(time.Duration(deficit / b.rate * float64(time.Second)))
		b.refill(time.Now())
	}
	b.tokens -= 1
	if b.tokens < 0 {
		b.tokens = 0
	}
}

// refill credits tokens for the time elapsed since the last refill, capped
// at capacity. Caller must hold the mutex.
func (b *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
}

// Tokens reports the currently available tokens after a refill. Intended
// for diagnostics and tests.
func (b *TokenBucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(time.Now())
	return b.tokens
}

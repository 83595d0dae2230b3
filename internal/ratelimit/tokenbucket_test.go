package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCapacityDefaultsToRate(t *testing.T) {
	b := New(2, 0)
	require.InDelta(t, 2.0, b.Tokens(), 0.05, "bucket should start full at capacity=rate")
}

func TestBurstThenThrottle(t *testing.T) {
	// 5 free burst tokens, then 5 more at 100/s: at least 50ms total.
	b := New(100, 5)

	start := time.Now()
	for i := 0; i < 10; i++ {
		b.Acquire()
	}
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, 45*time.Millisecond,
		"10 acquisitions from a 5-token bucket at 100/s must take ~50ms")
}

func TestTokensNeverNegative(t *testing.T) {
	b := New(1000, 1)
	for i := 0; i < 20; i++ {
		b.Acquire()
	}
	require.GreaterOrEqual(t, b.Tokens(), 0.0)
}

func TestRefillCapsAtCapacity(t *testing.T) {
	b := New(1000, 3)
	b.Acquire()
	time.Sleep(20 * time.Millisecond) // enough to refill far past capacity
	require.LessOrEqual(t, b.Tokens(), 3.0)
}

func TestConcurrentAcquireSerializes(t *testing.T) {
	// Two goroutines draining an empty 50/s bucket must together wait for
	// at least two refill intervals.
	b := New(50, 1)
	b.Acquire() // drain the burst token

	start := time.Now()
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			b.Acquire()
			done <- struct{}{}
		}()
	}
	<-done
	<-done

	require.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

package retry

import (
	"errors"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"StockScope/internal/httpx"
)

// maxRetryAfter caps how long a server-supplied Retry-After header can make
// us wait.
const maxRetryAfter = 30 * time.Second

// Policy describes how a call is retried: attempt budget, exponential
// backoff schedule and the predicate that separates transient failures from
// permanent ones. The zero value is not usable; start from Default.
type Policy struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
	Factor      float64

	// Retryable decides whether an error is worth another attempt.
	// Nil means IsRetryable.
	Retryable func(error) bool

	// Sleep is the wait function between attempts. Nil means time.Sleep;
	// tests substitute a recorder.
	Sleep func(time.Duration)
}

// Default mirrors the upstream client's historical schedule: six attempts
// with waits of 0.8s, 1.6s, 3.2s ... capped at 20s.
func Default() Policy {
	return Policy{
		MaxAttempts: 6,
		MinBackoff:  800 * time.Millisecond,
		MaxBackoff:  20 * time.Second,
		Factor:      2,
	}
}

// Do runs fn, retrying transient failures per the policy. The last error is
// returned unchanged once attempts are exhausted; non-retryable errors fail
// on the first occurrence.
func Do[T any](p Policy, fn func() (T, error)) (T, error) {
	var zero T

	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	b := &backoff.Backoff{
		Min:    p.MinBackoff,
		Max:    p.MaxBackoff,
		Factor: p.Factor,
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var v T
		v, err = fn()
		if err == nil {
			return v, nil
		}
		if !retryable(err) || attempt == attempts-1 {
			return zero, err
		}
		sleep(waitFor(err, b))
	}
	return zero, err
}

// waitFor picks the next wait: a 429 with Retry-After is honored (clamped),
// a 429 without one gets a short randomized wait so concurrent callers
// don't stampede back in sync, everything else follows the exponential
// schedule.
func waitFor(err error, b *backoff.Backoff) time.Duration {
	var se *httpx.StatusError
	if errors.As(err, &se) && se.Code == 429 {
		if se.RetryAfter > 0 {
			if se.RetryAfter > maxRetryAfter {
				return maxRetryAfter
			}
			return se.RetryAfter
		}
		return 2*time.Second + time.Duration(rand.Int63n(int64(time.Second)))
	}
	return b.Duration()
}

// IsRetryable classifies transient upstream failures: timeouts, connection
// errors, HTTP 5xx, HTTP 429 and rate-limit messages that the upstream
// library buries in generic error text.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var se *httpx.StatusError
	if errors.As(err, &se) {
		return se.Code == 429 || (se.Code >= 500 && se.Code <= 599)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"too many requests",
		"rate limit",
		"429",
		"connection refused",
		"connection reset",
		"timeout",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

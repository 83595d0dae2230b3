package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScope/internal/httpx"
)

// recorderPolicy returns the default policy with sleeps captured instead of
// actually waiting.
func recorderPolicy(sleeps *[]time.Duration) Policy {
	p := Default()
	p.Sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return p
}

func TestSuccessFirstTry(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	v, err := Do(recorderPolicy(&sleeps), func() (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
}

func TestTransientFailuresThenSuccess(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	v, err := Do(recorderPolicy(&sleeps), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &httpx.StatusError{Code: 503, URL: "http://x"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
	require.Len(t, sleeps, 2)
	assert.Equal(t, 800*time.Millisecond, sleeps[0])
	assert.Equal(t, 1600*time.Millisecond, sleeps[1])
}

func TestNonRetryableFailsFast(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	boom := errors.New("boom")

	_, err := Do(recorderPolicy(&sleeps), func() (int, error) {
		calls++
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
}

func TestExhaustionReturnsLastErrorUnchanged(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	upstream := &httpx.StatusError{Code: 500, URL: "http://x"}

	_, err := Do(recorderPolicy(&sleeps), func() (int, error) {
		calls++
		return 0, upstream
	})

	assert.Equal(t, 6, calls)
	assert.Len(t, sleeps, 5)
	var se *httpx.StatusError
	require.ErrorAs(t, err, &se)
	assert.Same(t, upstream, se, "the last error must come back unwrapped")
}

func TestRetryAfterHonored(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, _ = Do(recorderPolicy(&sleeps), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, &httpx.StatusError{Code: 429, URL: "http://x", RetryAfter: 5 * time.Second}
		}
		return 1, nil
	})

	require.Len(t, sleeps, 1)
	assert.Equal(t, 5*time.Second, sleeps[0])
}

func TestRetryAfterClamped(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, _ = Do(recorderPolicy(&sleeps), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, &httpx.StatusError{Code: 429, URL: "http://x", RetryAfter: 90 * time.Second}
		}
		return 1, nil
	})

	require.Len(t, sleeps, 1)
	assert.Equal(t, maxRetryAfter, sleeps[0])
}

func TestRateLimitWithoutHeaderGetsShortRandomWait(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, _ = Do(recorderPolicy(&sleeps), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, &httpx.StatusError{Code: 429, URL: "http://x"}
		}
		return 1, nil
	})

	require.Len(t, sleeps, 1)
	assert.GreaterOrEqual(t, sleeps[0], 2*time.Second)
	assert.Less(t, sleeps[0], 3*time.Second)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status 429", &httpx.StatusError{Code: 429}, true},
		{"status 503", &httpx.StatusError{Code: 503}, true},
		{"status 404", &httpx.StatusError{Code: 404}, false},
		{"rate limit text", errors.New("Too Many Requests. Rate limited."), true},
		{"429 in text", errors.New("got 429 from upstream"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"timeout text", errors.New("request timeout exceeded"), true},
		{"plain failure", errors.New("no data found, symbol may be delisted"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"StockScope/internal/httpx"
	"StockScope/internal/model"
	"StockScope/internal/ratelimit"
	"StockScope/internal/retry"
)

const defaultBaseURL = "https://api.stocktwits.com"

// ErrUnavailable indicates the message stream had no sentiment-tagged
// messages. Callers treat it like any other failure: the section is simply
// absent from the report.
var ErrUnavailable = errors.New("no sentiment data available")

// Client fetches the social message stream for a symbol and reduces it to
// bullish/bearish counts. The sentiment host rate-limits harder than the
// market-data host, so it gets its own bucket.
type Client struct {
	BaseURL string
	HTTP    *httpx.Client
	Limiter *ratelimit.TokenBucket
	Policy  retry.Policy
}

func New(baseURL string, http *httpx.Client, limiter *ratelimit.TokenBucket, policy retry.Policy) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{BaseURL: baseURL, HTTP: http, Limiter: limiter, Policy: policy}
}

type stream struct {
	Messages []struct {
		Entities struct {
			Sentiment *struct {
				Basic string `json:"basic"`
			} `json:"sentiment"`
		} `json:"entities"`
	} `json:"messages"`
}

// Fetch returns the bullish ratio and raw counts for the symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (*model.SentimentResult, error) {
	u := fmt.Sprintf("%s/api/2/streams/symbol/%s.json", c.BaseURL, url.PathEscape(strings.ToUpper(symbol)))

	body, err := retry.Do(c.Policy, func() ([]byte, error) {
		if c.Limiter != nil {
			c.Limiter.Acquire()
		}
		return c.HTTP.Get(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment fetch: %w", err)
	}

	var s stream
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("sentiment decode: %w", err)
	}

	bullish, bearish := 0, 0
	for _, m := range s.Messages {
		if m.Entities.Sentiment == nil {
			continue
		}
		switch m.Entities.Sentiment.Basic {
		case "Bullish":
			bullish++
		case "Bearish":
			bearish++
		}
	}

	total := bullish + bearish
	if total == 0 {
		return nil, ErrUnavailable
	}
	return &model.SentimentResult{
		BullishRatio: float64(bullish) / float64(total),
		Bullish:      bullish,
		Bearish:      bearish,
	}, nil
}

package options

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockScope/internal/marketdata"
	"StockScope/internal/model"
)

// strikeBand is how far above the current price a call strike may sit and
// still count as near-the-money.
const strikeBand = 10.0

// Evaluator selects the two year-boundary expirations and filters their
// call chains to near-the-money strikes.
type Evaluator struct {
	// Now is the clock used to partition expirations by calendar year.
	// Nil means time.Now.
	Now func() time.Time
}

// SelectExpirations partitions the expiration dates ("2006-01-02") by
// calendar year and picks the latest date within the current year and the
// earliest date within the next year, i.e. the expiration nearest this
// year's end and the first expiration of the new year. Either result is
// empty when its partition is empty.
func SelectExpirations(expirations []string, now time.Time) (currentYear, nextYear string) {
	year := now.Year()
	for _, exp := range expirations {
		d, err := time.Parse("2006-01-02", exp)
		if err != nil {
			continue
		}
		switch d.Year() {
		case year:
			if currentYear == "" || exp > currentYear {
				currentYear = exp
			}
		case year + 1:
			if nextYear == "" || exp < nextYear {
				nextYear = exp
			}
		}
	}
	return currentYear, nextYear
}

// Evaluate fetches the expiration list and the chains for the two selected
// expirations, filtering calls to strikes in [price, price+10]. A chain
// fetch failure is recorded per expiration and does not fail the other.
func (e *Evaluator) Evaluate(ctx context.Context, client *marketdata.Client, currentPrice float64) (*model.OptionsResult, error) {
	expirations, err := client.OptionExpirations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch expirations: %w", err)
	}
	if len(expirations) == 0 {
		return nil, marketdata.ErrNoOptions
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	curExp, nextExp := SelectExpirations(expirations, now())

	result := &model.OptionsResult{
		CurrentPrice:   currentPrice,
		StrikeRange:    fmt.Sprintf("%.2f - %.2f", currentPrice, currentPrice+strikeBand),
		CurrentYearExp: curExp,
		NextYearExp:    nextExp,
		Expirations:    make(map[string]model.ExpirationQuotes),
	}

	for _, exp := range []string{curExp, nextExp} {
		if exp == "" {
			continue
		}
		quotes := model.ExpirationQuotes{Expiration: exp}
		chain, cerr := client.OptionChain(ctx, exp)
		if cerr != nil {
			quotes.Err = cerr.Error()
		} else {
			quotes.Options = FilterCalls(chain.Calls, currentPrice)
			quotes.Count = len(quotes.Options)
		}
		result.Expirations[exp] = quotes
	}
	return result, nil
}

// FilterCalls keeps calls with strikes in [price, price+10], normalizes
// NaN fields to zero, and synthesizes an indicative bid/ask spread around
// the last trade when the market shows no quotes. The synthesized spread
// is a display estimate, not a live market value.
func FilterCalls(calls []model.OptionContract, price float64) []model.OptionContract {
	out := make([]model.OptionContract, 0, len(calls))
	for _, c := range calls {
		strike := sanitize(c.Strike)
		if strike < price || strike > price+strikeBand {
			continue
		}
		c.Strike = strike
		c.LastPrice = sanitize(c.LastPrice)
		c.Bid = sanitize(c.Bid)
		c.Ask = sanitize(c.Ask)
		c.ImpliedVolatility = sanitize(c.ImpliedVolatility)

		if c.Bid == 0 && c.Ask == 0 && c.LastPrice > 0 {
			c.Bid = c.LastPrice * 0.98
			c.Ask = c.LastPrice * 1.02
		}
		out = append(out, c)
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package marketdata

import (
	"context"
	"errors"

	"StockScope/internal/model"
)

// ErrNoPriceData indicates the provider returned an empty history for the
// symbol. This is a permanent condition and is not retried.
var ErrNoPriceData = errors.New("no price data for symbol")

// ErrNoOptions indicates no option expirations are listed for the symbol.
var ErrNoOptions = errors.New("no options listed for symbol")

// Provider defines the per-symbol upstream capability. Period strings follow
// the provider convention ("1d", "5d", "1mo", ... "max"); intervals are bar
// widths such as "1d" or "1wk".
type Provider interface {
	Name() string
	History(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error)
	Quote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error)
	QuarterlyFinancials(ctx context.Context, symbol string) (*model.FinancialStatement, error)
	OptionExpirations(ctx context.Context, symbol string) ([]string, error)
	OptionChain(ctx context.Context, symbol, expiration string) (*model.OptionChain, error)
	Calendar(ctx context.Context, symbol string) (string, error)
}

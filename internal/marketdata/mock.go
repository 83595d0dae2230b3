package marketdata

import (
	"context"
	"sync"
	"time"

	"StockScope/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Bars         []model.PriceBar
	Snapshot     *model.QuoteSnapshot
	Statement    *model.FinancialStatement
	Expirations  []string
	Chains       map[string]*model.OptionChain
	EarningsDate string

	// Errs maps an operation name ("history", "quote", "quarterly_financials",
	// "options", "option_chain", "calendar") to an error to return.
	Errs map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
	return m.Errs[op]
}

// Calls reports how many times an operation reached the provider.
func (m *MockProvider) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockProvider) History(_ context.Context, _, _, _ string) ([]model.PriceBar, error) {
	if err := m.record("history"); err != nil {
		return nil, err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateBars(100, 300), nil
}

func (m *MockProvider) Quote(_ context.Context, _ string) (*model.QuoteSnapshot, error) {
	if err := m.record("quote"); err != nil {
		return nil, err
	}
	return m.Snapshot, nil
}

func (m *MockProvider) QuarterlyFinancials(_ context.Context, _ string) (*model.FinancialStatement, error) {
	if err := m.record("quarterly_financials"); err != nil {
		return nil, err
	}
	return m.Statement, nil
}

func (m *MockProvider) OptionExpirations(_ context.Context, _ string) ([]string, error) {
	if err := m.record("options"); err != nil {
		return nil, err
	}
	return m.Expirations, nil
}

func (m *MockProvider) OptionChain(_ context.Context, _, expiration string) (*model.OptionChain, error) {
	if err := m.record("option_chain"); err != nil {
		return nil, err
	}
	if ch, ok := m.Chains[expiration]; ok {
		return ch, nil
	}
	return &model.OptionChain{Expiration: expiration}, nil
}

func (m *MockProvider) Calendar(_ context.Context, _ string) (string, error) {
	if err := m.record("calendar"); err != nil {
		return "", err
	}
	return m.EarningsDate, nil
}

// GenerateBars produces a deterministic gently-trending daily series around
// basePrice, most recent bar last.
func GenerateBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

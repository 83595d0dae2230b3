package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"StockScope/internal/httpx"
	"StockScope/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance public API.
type YahooProvider struct {
	BaseURL string
	Client  *httpx.Client
}

// NewYahooProvider creates a provider. baseURL may be empty for the default
// public host.
func NewYahooProvider(baseURL string, client *httpx.Client) *YahooProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = httpx.New(15*time.Second, "")
	}
	return &YahooProvider{BaseURL: baseURL, Client: client}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (p *YahooProvider) History(ctx context.Context, symbol, period, interval string) ([]model.PriceBar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.BaseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(period))

	body, err := p.Client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo chart decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart api: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoPriceData
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNoPriceData
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoPriceData
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// rawNum is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type rawNum struct {
	Raw *float64 `json:"raw"`
}

type rawDate struct {
	Raw *int64 `json:"raw"`
	Fmt string `json:"fmt"`
}

type quoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				CurrentPrice      rawNum `json:"currentPrice"`
				TotalRevenue      rawNum `json:"totalRevenue"`
				TotalDebt         rawNum `json:"totalDebt"`
				OperatingCashflow rawNum `json:"operatingCashflow"`
				ProfitMargins     rawNum `json:"profitMargins"`
				OperatingMargins  rawNum `json:"operatingMargins"`
				RevenueGrowth     rawNum `json:"revenueGrowth"`
			} `json:"financialData"`
			SummaryDetail *struct {
				FiftyTwoWeekHigh rawNum `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawNum `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			CalendarEvents *struct {
				Earnings struct {
					EarningsDate []rawDate `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (p *YahooProvider) fetchQuoteSummary(ctx context.Context, symbol, modules string) (*quoteSummary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		p.BaseURL, url.PathEscape(symbol), url.QueryEscape(modules))

	body, err := p.Client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote summary: %w", err)
	}
	var qs quoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("yahoo quote summary decode: %w", err)
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo quote summary api: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quote summary: empty result for %s", symbol)
	}
	return &qs, nil
}

func (p *YahooProvider) Quote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error) {
	qs, err := p.fetchQuoteSummary(ctx, symbol, "financialData,summaryDetail")
	if err != nil {
		return nil, err
	}

	snap := &model.QuoteSnapshot{}
	r := qs.QuoteSummary.Result[0]
	if fd := r.FinancialData; fd != nil {
		snap.CurrentPrice = fd.CurrentPrice.Raw
		snap.Revenue = fd.TotalRevenue.Raw
		snap.TotalDebt = fd.TotalDebt.Raw
		snap.OperatingCashFlow = fd.OperatingCashflow.Raw
		snap.ProfitMargin = fd.ProfitMargins.Raw
		snap.OperatingMargin = fd.OperatingMargins.Raw
		snap.QuarterlyRevenueChange = fd.RevenueGrowth.Raw
	}
	if sd := r.SummaryDetail; sd != nil {
		snap.High52 = sd.FiftyTwoWeekHigh.Raw
		snap.Low52 = sd.FiftyTwoWeekLow.Raw
	}
	return snap, nil
}

// Calendar returns the upcoming earnings date as "2006-01-02", or an empty
// string when none is scheduled.
func (p *YahooProvider) Calendar(ctx context.Context, symbol string) (string, error) {
	qs, err := p.fetchQuoteSummary(ctx, symbol, "calendarEvents")
	if err != nil {
		return "", err
	}
	ce := qs.QuoteSummary.Result[0].CalendarEvents
	if ce == nil || len(ce.Earnings.EarningsDate) == 0 {
		return "", nil
	}
	d := ce.Earnings.EarningsDate[0]
	if d.Raw != nil {
		return time.Unix(*d.Raw, 0).UTC().Format("2006-01-02"), nil
	}
	return d.Fmt, nil
}

type timeseries struct {
	Timeseries struct {
		Result []struct {
			Meta struct {
				Type []string `json:"type"`
			} `json:"meta"`
			QuarterlyTotalRevenue []*struct {
				AsOfDate      string `json:"asOfDate"`
				ReportedValue rawNum `json:"reportedValue"`
			} `json:"quarterlyTotalRevenue"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

// QuarterlyFinancials fetches the quarterly Total Revenue row from the
// fundamentals timeseries endpoint, oldest quarter first.
func (p *YahooProvider) QuarterlyFinancials(ctx context.Context, symbol string) (*model.FinancialStatement, error) {
	now := time.Now()
	// one extra quarter of slack so five full years survive date filtering
	start := now.AddDate(-5, -3, 0)

	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?symbol=%s&type=quarterlyTotalRevenue&period1=%d&period2=%d",
		p.BaseURL, url.PathEscape(symbol), url.QueryEscape(symbol), start.Unix(), now.Unix())

	body, err := p.Client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo financials: %w", err)
	}
	var ts timeseries
	if err := json.Unmarshal(body, &ts); err != nil {
		return nil, fmt.Errorf("yahoo financials decode: %w", err)
	}
	if ts.Timeseries.Error != nil {
		return nil, fmt.Errorf("yahoo financials api: %s", ts.Timeseries.Error.Description)
	}

	stmt := &model.FinancialStatement{Rows: map[string][]float64{}}
	for _, r := range ts.Timeseries.Result {
		if len(r.QuarterlyTotalRevenue) == 0 {
			continue
		}
		for _, q := range r.QuarterlyTotalRevenue {
			if q == nil || q.ReportedValue.Raw == nil {
				continue
			}
			d, perr := time.Parse("2006-01-02", q.AsOfDate)
			if perr != nil {
				continue
			}
			stmt.Dates = append(stmt.Dates, d)
			stmt.Rows["Total Revenue"] = append(stmt.Rows["Total Revenue"], *q.ReportedValue.Raw)
		}
	}
	sortStatement(stmt)
	return stmt, nil
}

// sortStatement orders rows oldest first, keeping dates and values aligned.
func sortStatement(stmt *model.FinancialStatement) {
	n := len(stmt.Dates)
	if n < 2 {
		return
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return stmt.Dates[idx[a]].Before(stmt.Dates[idx[b]]) })

	dates := make([]time.Time, n)
	rows := make(map[string][]float64, len(stmt.Rows))
	for name, vals := range stmt.Rows {
		sorted := make([]float64, n)
		for i, j := range idx {
			dates[i] = stmt.Dates[j]
			sorted[i] = vals[j]
		}
		rows[name] = sorted
	}
	stmt.Dates = dates
	stmt.Rows = rows
}

type optionsResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				Calls []yahooContract `json:"calls"`
				Puts  []yahooContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

type yahooContract struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	Volume            int     `json:"volume"`
	OpenInterest      int     `json:"openInterest"`
}

func (p *YahooProvider) fetchOptions(ctx context.Context, symbol string, date int64) (*optionsResponse, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s", p.BaseURL, url.PathEscape(symbol))
	if date > 0 {
		u += fmt.Sprintf("?date=%d", date)
	}
	body, err := p.Client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo options: %w", err)
	}
	var or optionsResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, fmt.Errorf("yahoo options decode: %w", err)
	}
	if or.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo options api: %s", or.OptionChain.Error.Description)
	}
	if len(or.OptionChain.Result) == 0 {
		return nil, ErrNoOptions
	}
	return &or, nil
}

func (p *YahooProvider) OptionExpirations(ctx context.Context, symbol string) ([]string, error) {
	or, err := p.fetchOptions(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	dates := or.OptionChain.Result[0].ExpirationDates
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, time.Unix(d, 0).UTC().Format("2006-01-02"))
	}
	return out, nil
}

func (p *YahooProvider) OptionChain(ctx context.Context, symbol, expiration string) (*model.OptionChain, error) {
	d, err := time.Parse("2006-01-02", expiration)
	if err != nil {
		return nil, fmt.Errorf("parse expiration %q: %w", expiration, err)
	}
	or, err := p.fetchOptions(ctx, symbol, d.UTC().Unix())
	if err != nil {
		return nil, err
	}
	result := or.OptionChain.Result[0]
	if len(result.Options) == 0 {
		return &model.OptionChain{Expiration: expiration}, nil
	}
	return &model.OptionChain{
		Expiration: expiration,
		Calls:      toContracts(result.Options[0].Calls),
		Puts:       toContracts(result.Options[0].Puts),
	}, nil
}

func toContracts(in []yahooContract) []model.OptionContract {
	out := make([]model.OptionContract, 0, len(in))
	for _, c := range in {
		out = append(out, model.OptionContract{
			ContractID:        c.ContractSymbol,
			Strike:            c.Strike,
			LastPrice:         c.LastPrice,
			Bid:               c.Bid,
			Ask:               c.Ask,
			ImpliedVolatility: c.ImpliedVolatility,
			Volume:            c.Volume,
			OpenInterest:      c.OpenInterest,
		})
	}
	return out
}

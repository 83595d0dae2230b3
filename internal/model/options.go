package model

// OptionContract is one row of an option chain.
type OptionContract struct {
	ContractID        string
	Strike            float64
	LastPrice         float64
	Bid               float64
	Ask               float64
	ImpliedVolatility float64
	Volume            int
	OpenInterest      int
}

// OptionChain holds the calls and puts tables for one expiration date.
type OptionChain struct {
	Expiration string
	Calls      []OptionContract
	Puts       []OptionContract
}

// ExpirationQuotes is the filtered near-the-money call selection for one
// expiration. Err is set when the chain for this expiration could not be
// fetched; the other expiration is still reported.
type ExpirationQuotes struct {
	Expiration string
	Options    []OptionContract
	Count      int
	Err        string
}

// OptionsResult is the output of the year-boundary options evaluation.
type OptionsResult struct {
	CurrentPrice   float64
	StrikeRange    string
	CurrentYearExp string                      // latest expiration within the current calendar year
	NextYearExp    string                      // earliest expiration within the next calendar year
	Expirations    map[string]ExpirationQuotes // keyed by expiration date
}

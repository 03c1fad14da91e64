package market

import "context"

// Provider fetches one kind of market quote (exchange rates, stock prices,
// cryptocurrency prices).
type Provider interface {
	// Quote fetches the current value for the query.
	Quote(ctx context.Context, cfg Config, q Query) (Quote, error)
}

// Config holds provider connection settings.
type Config struct {
	APIKey   string
	Endpoint string // overrides the provider's default base URL when set
}

// Query identifies what to quote. Base is the primary instrument (currency
// code, stock symbol, or coin id); Target is the quote currency where the
// provider needs one.
type Query struct {
	Base   string
	Target string
}

// Quote is a single fetched price.
type Quote struct {
	Value float64
	Unit  string
}

// Package coingecko quotes cryptocurrency prices from the CoinGecko API.
package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/crimson-sun/pennyworth/internal/market"
	"github.com/crimson-sun/pennyworth/internal/market/httpclient"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

func init() {
	market.Register("coingecko", func() market.Provider {
		return &Provider{}
	})
}

// Provider implements the market.Provider interface for crypto prices.
type Provider struct{}

// Quote fetches the USD price for the coin id in q.Base.
func (p *Provider) Quote(ctx context.Context, cfg market.Config, q market.Query) (market.Quote, error) {
	base := cfg.Endpoint
	if base == "" {
		base = defaultBaseURL
	}
	coin := strings.ToLower(q.Base)

	opts := []httpclient.Option{httpclient.WithTimeout(10 * time.Second)}
	if cfg.APIKey != "" {
		opts = append(opts, httpclient.WithHeader("x-cg-demo-api-key", cfg.APIKey))
	}
	c := httpclient.New(base, opts...)

	query := url.Values{}
	query.Set("ids", coin)
	query.Set("vs_currencies", "usd")

	var resp map[string]map[string]float64
	if err := c.GetJSON(ctx, "/simple/price", query, &resp); err != nil {
		return market.Quote{}, fmt.Errorf("coingecko: %w", err)
	}

	price, ok := resp[coin]["usd"]
	if !ok {
		return market.Quote{}, fmt.Errorf("coingecko: no price for %s", coin)
	}
	return market.Quote{Value: price, Unit: "USD"}, nil
}

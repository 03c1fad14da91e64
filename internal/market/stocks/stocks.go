// Package stocks quotes equity prices from Yahoo Finance's chart endpoint.
package stocks

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/crimson-sun/pennyworth/internal/market"
	"github.com/crimson-sun/pennyworth/internal/market/httpclient"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

func init() {
	market.Register("stocks", func() market.Provider {
		return &Provider{}
	})
}

// Provider implements the market.Provider interface for stock prices.
type Provider struct{}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches the latest market price for the symbol in q.Base.
func (p *Provider) Quote(ctx context.Context, cfg market.Config, q market.Query) (market.Quote, error) {
	base := cfg.Endpoint
	if base == "" {
		base = defaultBaseURL
	}
	symbol := strings.ToUpper(q.Base)

	c := httpclient.New(base, httpclient.WithTimeout(10*time.Second))
	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("range", "1d")

	var resp chartResponse
	if err := c.GetJSON(ctx, "/v8/finance/chart/"+symbol, query, &resp); err != nil {
		return market.Quote{}, fmt.Errorf("stocks: %w", err)
	}

	if resp.Chart.Error != nil {
		return market.Quote{}, fmt.Errorf("stocks: %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return market.Quote{}, fmt.Errorf("stocks: no data for %s", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	unit := meta.Currency
	if unit == "" {
		unit = "USD"
	}
	return market.Quote{Value: meta.RegularMarketPrice, Unit: unit}, nil
}

// Package fx quotes currency exchange rates from exchangerate-api.com.
package fx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crimson-sun/pennyworth/internal/market"
	"github.com/crimson-sun/pennyworth/internal/market/httpclient"
)

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

func init() {
	market.Register("fx", func() market.Provider {
		return &Provider{}
	})
}

// Provider implements the market.Provider interface for exchange rates.
type Provider struct{}

type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Quote fetches the conversion rate from q.Base to q.Target.
func (p *Provider) Quote(ctx context.Context, cfg market.Config, q market.Query) (market.Quote, error) {
	base := cfg.Endpoint
	if base == "" {
		base = defaultBaseURL
	}

	from := strings.ToUpper(q.Base)
	to := strings.ToUpper(q.Target)

	c := httpclient.New(base, httpclient.WithTimeout(10*time.Second))
	var resp latestResponse
	path := fmt.Sprintf("/%s/latest/%s", cfg.APIKey, from)
	if err := c.GetJSON(ctx, path, nil, &resp); err != nil {
		return market.Quote{}, fmt.Errorf("fx: %w", err)
	}

	if resp.Result != "success" {
		return market.Quote{}, fmt.Errorf("fx: request failed: %s", resp.ErrorType)
	}
	rate, ok := resp.ConversionRates[to]
	if !ok {
		return market.Quote{}, fmt.Errorf("fx: no conversion rate for %s", to)
	}
	return market.Quote{Value: rate, Unit: to}, nil
}

package stocks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crimson-sun/pennyworth/internal/market"
)

func TestQuote(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":187.55,"currency":"USD"}}]}}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{Endpoint: srv.URL}

	quote, err := p.Quote(context.Background(), cfg, market.Query{Base: "aapl"})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if quote.Value != 187.55 {
		t.Errorf("price = %f, want 187.55", quote.Value)
	}
	if quote.Unit != "USD" {
		t.Errorf("unit = %q, want USD", quote.Unit)
	}
	if gotPath != "/v8/finance/chart/AAPL" {
		t.Errorf("path = %q, want /v8/finance/chart/AAPL", gotPath)
	}
	if gotRange != "1d" {
		t.Errorf("range = %q, want 1d", gotRange)
	}
}

func TestQuoteUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"description":"No data found"}}}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{Endpoint: srv.URL}

	if _, err := p.Quote(context.Background(), cfg, market.Query{Base: "NOPE"}); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := market.Get("stocks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ctor() == nil {
		t.Fatal("constructor returned nil")
	}
}

package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crimson-sun/pennyworth/internal/market"
)

func TestQuote(t *testing.T) {
	var gotIDs, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Write([]byte(`{"bitcoin":{"usd":64230.12}}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{APIKey: "demo-key", Endpoint: srv.URL}

	quote, err := p.Quote(context.Background(), cfg, market.Query{Base: "Bitcoin"})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if quote.Value != 64230.12 {
		t.Errorf("price = %f, want 64230.12", quote.Value)
	}
	if quote.Unit != "USD" {
		t.Errorf("unit = %q, want USD", quote.Unit)
	}
	if gotIDs != "bitcoin" {
		t.Errorf("ids = %q, want bitcoin", gotIDs)
	}
	if gotKey != "demo-key" {
		t.Errorf("api key header = %q, want demo-key", gotKey)
	}
}

func TestQuoteUnknownCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{Endpoint: srv.URL}

	if _, err := p.Quote(context.Background(), cfg, market.Query{Base: "notacoin"}); err == nil {
		t.Fatal("expected error for unknown coin")
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := market.Get("coingecko")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ctor() == nil {
		t.Fatal("constructor returned nil")
	}
}

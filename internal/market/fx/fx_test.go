package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crimson-sun/pennyworth/internal/market"
)

func TestQuote(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"result":"success","conversion_rates":{"EUR":0.9234,"INR":83.12}}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{APIKey: "test-key", Endpoint: srv.URL}

	quote, err := p.Quote(context.Background(), cfg, market.Query{Base: "usd", Target: "eur"})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if quote.Value != 0.9234 {
		t.Errorf("rate = %f, want 0.9234", quote.Value)
	}
	if quote.Unit != "EUR" {
		t.Errorf("unit = %q, want EUR", quote.Unit)
	}
	if gotPath != "/test-key/latest/USD" {
		t.Errorf("path = %q, want /test-key/latest/USD", gotPath)
	}
}

func TestQuoteUnknownTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","conversion_rates":{"EUR":0.92}}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{Endpoint: srv.URL}

	_, err := p.Quote(context.Background(), cfg, market.Query{Base: "USD", Target: "XYZ"})
	if err == nil || !strings.Contains(err.Error(), "XYZ") {
		t.Fatalf("err = %v, want missing-rate error naming XYZ", err)
	}
}

func TestQuoteAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","error-type":"invalid-key"}`))
	}))
	defer srv.Close()

	p := &Provider{}
	cfg := market.Config{Endpoint: srv.URL}

	_, err := p.Quote(context.Background(), cfg, market.Query{Base: "USD", Target: "EUR"})
	if err == nil || !strings.Contains(err.Error(), "invalid-key") {
		t.Fatalf("err = %v, want error naming invalid-key", err)
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := market.Get("fx")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ctor() == nil {
		t.Fatal("constructor returned nil")
	}
}

// Package pennyworth provides a voice-driven personal finance assistant:
// intent resolution over spoken commands, slot-filling dialogues, expense
// and budget tracking, and live market lookups.
//
// Quick start:
//
//	a, err := pennyworth.New(pennyworth.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	intent, _ := a.Resolve("I want to log an expense")
//	fmt.Println(intent) // log_expense
//
// Converse runs the full interactive loop over a reader and writer:
//
//	a.Converse(ctx, os.Stdin, os.Stdout)
//
// The Assistant is safe for concurrent Resolve and Correct calls. Create
// once, reuse across requests.
package pennyworth

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/crimson-sun/pennyworth/internal/action"
	"github.com/crimson-sun/pennyworth/internal/conversation"
	"github.com/crimson-sun/pennyworth/internal/dialogue"
	"github.com/crimson-sun/pennyworth/internal/engine/corpus"
	"github.com/crimson-sun/pennyworth/internal/engine/embedder"
	"github.com/crimson-sun/pennyworth/internal/engine/resolver"
	"github.com/crimson-sun/pennyworth/internal/listener"
	"github.com/crimson-sun/pennyworth/internal/market"
	"github.com/crimson-sun/pennyworth/internal/model"
	"github.com/crimson-sun/pennyworth/internal/speaker/stdout"
	"github.com/crimson-sun/pennyworth/internal/store"

	// Register market data providers.
	_ "github.com/crimson-sun/pennyworth/internal/market/coingecko"
	_ "github.com/crimson-sun/pennyworth/internal/market/fx"
	_ "github.com/crimson-sun/pennyworth/internal/market/stocks"
)

// Intent is a recognized command category.
type Intent string

// The intents the assistant can resolve.
const (
	IntentLogExpense        Intent = "log_expense"
	IntentSetBudget         Intent = "set_budget"
	IntentCheckBudget       Intent = "check_budget"
	IntentViewExpenses      Intent = "view_expenses"
	IntentFinancialAnalysis Intent = "financial_analysis"
	IntentExchangeRate      Intent = "check_exchange_rate"
	IntentStockPrice        Intent = "check_stock_price"
	IntentCryptoPrice       Intent = "check_crypto_price"
	IntentExit              Intent = "exit"
)

// Embedder produces dense vector embeddings from utterance text. Supply one
// via WithEmbedder to replace the bundled ONNX encoder.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
	Close() error
}

// Assistant is a voice-driven personal finance assistant.
type Assistant struct {
	emb        Embedder
	resolver   *resolver.Resolver
	registry   *dialogue.Registry
	store      *store.Store
	exec       *action.Dispatcher
	maxRetries int
}

// New creates an Assistant, loading model files and pre-embedding the seed
// corpus. This is an expensive operation; create once and reuse across
// requests.
func New(opts ...Option) (*Assistant, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	emb := o.embedder
	if emb == nil {
		modelPath, vocabPath := resolvePaths(o)
		e, err := embedder.New(modelPath, vocabPath)
		if err != nil {
			return nil, fmt.Errorf("pennyworth: %w", err)
		}
		emb = e
	}

	c := corpus.Default()
	if o.corpusPath != "" {
		loaded, err := corpus.Load(o.corpusPath)
		if err != nil {
			emb.Close()
			return nil, fmt.Errorf("pennyworth: %w", err)
		}
		c = loaded
	}

	res, err := resolver.New(emb, c, resolver.Config{
		Components: o.components,
		MinScore:   o.minScore,
	})
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("pennyworth: %w", err)
	}

	st, err := store.Open(o.storePath)
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("pennyworth: %w", err)
	}

	exec, err := action.NewDispatcher(st, action.Config{
		FX:     market.Config{APIKey: o.fxKey},
		Stocks: market.Config{},
		Crypto: market.Config{APIKey: o.geckoKey},
	})
	if err != nil {
		st.Close()
		emb.Close()
		return nil, fmt.Errorf("pennyworth: %w", err)
	}

	return &Assistant{
		emb:        emb,
		resolver:   res,
		registry:   dialogue.NewRegistry(o.categories),
		store:      st,
		exec:       exec,
		maxRetries: o.maxRetries,
	}, nil
}

// Resolve maps an utterance to an intent.
func (a *Assistant) Resolve(text string) (Intent, error) {
	intent, err := a.resolver.Resolve(text)
	if err != nil {
		return "", err
	}
	return Intent(intent), nil
}

// Correct records a corrected label for an utterance and retrains the
// finance classifier. Only the finance intents accept corrections.
func (a *Assistant) Correct(text string, intent Intent) error {
	return a.resolver.Correct(text, model.Intent(intent))
}

// Execute runs one intent directly with pre-filled slots, bypassing the
// dialogue loop, and returns the sentence the assistant would speak.
func (a *Assistant) Execute(ctx context.Context, intent Intent, slots map[string]any) (string, error) {
	result, err := a.exec.Execute(ctx, model.Action{
		Intent: model.Intent(intent),
		Slots:  slots,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// Converse runs the interactive loop: one utterance per line from in,
// prompts written to out. Returns once the user exits or in is exhausted.
func (a *Assistant) Converse(ctx context.Context, in io.Reader, out io.Writer) error {
	m := conversation.New(conversation.Config{
		Resolver:   a.resolver,
		Registry:   a.registry,
		Executor:   a.exec,
		Speaker:    stdout.NewWriter(out),
		Listener:   listener.New(in),
		MaxRetries: a.maxRetries,
	})
	return m.Run(ctx)
}

// Close releases the embedding session and the database.
func (a *Assistant) Close() error {
	return errors.Join(a.store.Close(), a.emb.Close())
}

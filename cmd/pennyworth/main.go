package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/pennyworth/internal/action"
	"github.com/crimson-sun/pennyworth/internal/config"
	"github.com/crimson-sun/pennyworth/internal/conversation"
	"github.com/crimson-sun/pennyworth/internal/dialogue"
	"github.com/crimson-sun/pennyworth/internal/engine/corpus"
	"github.com/crimson-sun/pennyworth/internal/engine/embedder"
	"github.com/crimson-sun/pennyworth/internal/engine/resolver"
	"github.com/crimson-sun/pennyworth/internal/listener"
	"github.com/crimson-sun/pennyworth/internal/logging"
	"github.com/crimson-sun/pennyworth/internal/market"
	"github.com/crimson-sun/pennyworth/internal/speaker"
	"github.com/crimson-sun/pennyworth/internal/speaker/async"
	"github.com/crimson-sun/pennyworth/internal/speaker/multi"
	"github.com/crimson-sun/pennyworth/internal/speaker/stdout"
	"github.com/crimson-sun/pennyworth/internal/speaker/transcript"
	"github.com/crimson-sun/pennyworth/internal/speaker/ws"
	"github.com/crimson-sun/pennyworth/internal/store"

	// Register market data providers.
	_ "github.com/crimson-sun/pennyworth/internal/market/coingecko"
	_ "github.com/crimson-sun/pennyworth/internal/market/fx"
	_ "github.com/crimson-sun/pennyworth/internal/market/stocks"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogJSON, logging.ParseLevel(cfg.LogLevel))

	// Initialize embedder.
	emb, err := embedder.New(cfg.Engine.ModelPath, cfg.Engine.VocabPath)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}
	defer emb.Close()

	// Load the seed corpus.
	seed := corpus.Default()
	if cfg.Engine.SeedPath != "" {
		seed, err = corpus.Load(cfg.Engine.SeedPath)
		if err != nil {
			log.Fatalf("failed to load seed corpus: %v", err)
		}
	}

	// Initialize the intent resolver.
	res, err := resolver.New(emb, seed, resolver.Config{
		Components: cfg.Engine.Components,
		MinScore:   cfg.Engine.MinScore,
	})
	if err != nil {
		log.Fatalf("failed to create resolver: %v", err)
	}

	// Open the expense/budget store.
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// Initialize the action dispatcher.
	exec, err := action.NewDispatcher(st, action.Config{
		FX:     market.Config{APIKey: cfg.Market.ExchangeRateKey},
		Stocks: market.Config{},
		Crypto: market.Config{APIKey: cfg.Market.CoinGeckoKey},
	})
	if err != nil {
		log.Fatalf("failed to create dispatcher: %v", err)
	}

	// Assemble the voice output: stdout always, plus optional transcript
	// and websocket mirrors behind an async buffer.
	spk, err := buildSpeaker(cfg.Speech)
	if err != nil {
		log.Fatalf("failed to set up speakers: %v", err)
	}
	defer spk.Close()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	m := conversation.New(conversation.Config{
		Resolver:   res,
		Registry:   dialogue.NewRegistry(cfg.Dialogue.Categories),
		Executor:   exec,
		Speaker:    spk,
		Listener:   listener.NewStdin(),
		MaxRetries: cfg.Dialogue.MaxRetries,
	})

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("conversation error: %v", err)
	}
}

// buildSpeaker wires the configured prompt sinks. Stdout is the primary voice
// channel and stays synchronous; mirrors ride behind an async lossy buffer so
// a slow client can never stall the conversation.
func buildSpeaker(cfg config.SpeechConfig) (speaker.Speaker, error) {
	voice := stdout.New()

	var mirrors []speaker.Speaker
	if cfg.TranscriptPath != "" {
		tr, err := transcript.New(cfg.TranscriptPath)
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, tr)
	}
	if cfg.ListenAddr != "" {
		mirrors = append(mirrors, ws.New(cfg.ListenAddr))
	}

	if len(mirrors) == 0 {
		return voice, nil
	}
	return multi.New(voice, async.New(multi.New(mirrors...), async.WithDropOnFull())), nil
}

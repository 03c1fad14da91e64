// Package resolver maps utterances to intents using two classifier tiers: a
// coarse command router over every intent and a finer embedding-based
// refinement for finance queries. Each tier prefers its trainable classifier
// and falls back to similarity matching when that fails.
package resolver

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/pennyworth/internal/engine/classify"
	"github.com/crimson-sun/pennyworth/internal/engine/corpus"
	"github.com/crimson-sun/pennyworth/internal/engine/similarity"
	"github.com/crimson-sun/pennyworth/internal/model"
)

// Embedder is the embedding surface both tiers share.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
}

// Config tunes the fine tier.
type Config struct {
	// Components is the projection dimensionality for the fine classifier.
	Components int

	// MinScore gates similarity fallback matches. Zero disables the gate.
	MinScore float64
}

// tier pairs a trainable classifier with its similarity fallback.
type tier struct {
	name    string
	trained *classify.Classifier
	similar *similarity.Classifier
}

func (t tier) resolve(log *slog.Logger, text string) (model.Intent, error) {
	intent, err := t.trained.Classify(text)
	if err == nil {
		return intent, nil
	}
	log.Warn("trained classifier unavailable, using similarity fallback",
		"tier", t.name, "error", err)

	intent, score, err := t.similar.Classify(text)
	if err != nil {
		return "", err
	}
	log.Debug("similarity match", "tier", t.name, "intent", intent, "score", score)
	return intent, nil
}

// Resolver resolves utterances to intents.
type Resolver struct {
	coarse tier
	fine   tier
	log    *slog.Logger
}

// New builds both tiers from the corpus. The coarse tier trains a
// bag-of-words model over command phrases; the fine tier trains an
// embedding pipeline over the finance phrase lists.
func New(emb Embedder, c *corpus.Corpus, cfg Config) (*Resolver, error) {
	coarseTrained, err := classify.New(classify.Config{
		Strategy: classify.BagOfWords(),
	}, c.Commands)
	if err != nil {
		return nil, fmt.Errorf("resolver: coarse tier: %w", err)
	}
	coarseSimilar, err := similarity.New(emb, c.Commands, cfg.MinScore)
	if err != nil {
		return nil, fmt.Errorf("resolver: coarse tier: %w", err)
	}

	fineTrained, err := classify.New(classify.Config{
		Strategy:    classify.Embeddings(emb),
		Standardize: true,
		Components:  cfg.Components,
	}, c.Finance)
	if err != nil {
		return nil, fmt.Errorf("resolver: fine tier: %w", err)
	}
	fineSimilar, err := similarity.New(emb, c.Finance, cfg.MinScore)
	if err != nil {
		return nil, fmt.Errorf("resolver: fine tier: %w", err)
	}

	return &Resolver{
		coarse: tier{name: "commands", trained: coarseTrained, similar: coarseSimilar},
		fine:   tier{name: "finance", trained: fineTrained, similar: fineSimilar},
		log:    slog.Default().With("component", "resolver"),
	}, nil
}

// Resolve maps an utterance to an intent. Finance intents from the coarse
// tier are refined by the fine tier; when refinement fails or lands outside
// the finance intents the coarse result stands.
func (r *Resolver) Resolve(text string) (model.Intent, error) {
	intent, err := r.coarse.resolve(r.log, text)
	if err != nil {
		return "", fmt.Errorf("resolver: %w", err)
	}
	if !intent.Finance() {
		return intent, nil
	}

	refined, err := r.fine.resolve(r.log, text)
	if err != nil {
		r.log.Warn("fine tier failed, keeping coarse intent",
			"intent", intent, "error", err)
		return intent, nil
	}
	if !refined.Finance() {
		return intent, nil
	}
	return refined, nil
}

// Correct records a corrected label for an utterance against the fine tier.
// Corrections to labels without a training set return
// classify.ErrUnsupportedCategory.
func (r *Resolver) Correct(text string, label model.Intent) error {
	return r.fine.trained.Relabel(text, label)
}

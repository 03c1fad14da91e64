package classify

import (
	"fmt"
	"sort"

	"github.com/crimson-sun/pennyworth/internal/engine/normalize"
)

// Extractor turns utterances into fixed-width feature vectors.
type Extractor interface {
	Extract(text string) ([]float64, error)
	ExtractBatch(texts []string) ([][]float64, error)
	Dim() int
}

// Strategy builds an Extractor, optionally fitting it to the training texts.
type Strategy interface {
	Name() string
	Fit(texts []string) (Extractor, error)
}

// Embedder is the embedding surface the embedding strategy wraps.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
}

// bagOfWords counts token occurrences against a vocabulary learned from the
// training texts. Tokens outside the vocabulary are ignored.
type bagOfWords struct {
	index map[string]int
}

// BagOfWords returns a strategy that fits a token-count vocabulary.
func BagOfWords() Strategy {
	return bowStrategy{}
}

type bowStrategy struct{}

func (bowStrategy) Name() string { return "bag-of-words" }

func (bowStrategy) Fit(texts []string) (Extractor, error) {
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, tok := range normalize.Tokens(text) {
			seen[tok] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("classify: no tokens in training texts")
	}

	vocab := make([]string, 0, len(seen))
	for tok := range seen {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		index[tok] = i
	}
	return &bagOfWords{index: index}, nil
}

func (b *bagOfWords) Dim() int { return len(b.index) }

func (b *bagOfWords) Extract(text string) ([]float64, error) {
	vec := make([]float64, len(b.index))
	for _, tok := range normalize.Tokens(text) {
		if i, ok := b.index[tok]; ok {
			vec[i]++
		}
	}
	return vec, nil
}

func (b *bagOfWords) ExtractBatch(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := b.Extract(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// embeddings adapts an Embedder to the Extractor interface.
type embeddings struct {
	emb Embedder
	dim int
}

// Embeddings returns a strategy backed by a sentence embedder. The embedder
// needs no fitting; Fit only probes the output dimensionality.
func Embeddings(emb Embedder) Strategy {
	return embStrategy{emb: emb}
}

type embStrategy struct {
	emb Embedder
}

func (embStrategy) Name() string { return "embeddings" }

func (s embStrategy) Fit(texts []string) (Extractor, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("classify: no training texts")
	}
	probe, err := s.emb.Embed(texts[0])
	if err != nil {
		return nil, fmt.Errorf("classify: embedder probe failed: %w", err)
	}
	return &embeddings{emb: s.emb, dim: len(probe)}, nil
}

func (e *embeddings) Dim() int { return e.dim }

func (e *embeddings) Extract(text string) ([]float64, error) {
	vec, err := e.emb.Embed(text)
	if err != nil {
		return nil, err
	}
	return widen(vec), nil
}

func (e *embeddings) ExtractBatch(texts []string) ([][]float64, error) {
	vecs, err := e.emb.EmbedBatch(texts)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		out[i] = widen(v)
	}
	return out, nil
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

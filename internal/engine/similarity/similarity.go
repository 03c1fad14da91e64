// Package similarity classifies utterances by embedding them and comparing
// against fixed per-intent anchor sets. It needs no training and serves as
// the fallback when a trained classifier is unavailable.
package similarity

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/pennyworth/internal/engine/corpus"
	"github.com/crimson-sun/pennyworth/internal/model"
)

// ErrAmbiguous is returned when the best matching intent scores below the
// configured minimum, meaning no anchor set claims the utterance with
// enough confidence.
var ErrAmbiguous = errors.New("similarity: no match above minimum score")

// Embedder is the subset of embedding behaviour the classifier needs.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
}

// anchorSet holds the precomputed embeddings for one intent.
type anchorSet struct {
	label model.Intent
	vecs  [][]float32
}

// Classifier matches utterances to the nearest anchored intent by maximum
// dot product. Ties resolve to the earlier set in construction order.
type Classifier struct {
	emb      Embedder
	sets     []anchorSet
	minScore float64
}

// New embeds every anchor utterance up front and returns a ready classifier.
// minScore of 0 disables the confidence gate.
func New(emb Embedder, sets []corpus.Set, minScore float64) (*Classifier, error) {
	if len(sets) == 0 {
		return nil, errors.New("similarity: no anchor sets")
	}

	anchors := make([]anchorSet, 0, len(sets))
	for _, s := range sets {
		texts := s.Anchors()
		if len(texts) == 0 {
			return nil, fmt.Errorf("similarity: set %q has no anchors", s.Label)
		}
		vecs, err := emb.EmbedBatch(texts)
		if err != nil {
			return nil, fmt.Errorf("similarity: failed to embed anchors for %q: %w", s.Label, err)
		}
		anchors = append(anchors, anchorSet{label: s.Label, vecs: vecs})
	}

	return &Classifier{emb: emb, sets: anchors, minScore: minScore}, nil
}

// Classify returns the intent whose anchors are most similar to the
// utterance, along with the winning score.
func (c *Classifier) Classify(text string) (model.Intent, float64, error) {
	vec, err := c.emb.Embed(text)
	if err != nil {
		return "", 0, fmt.Errorf("similarity: %w", err)
	}

	best := c.sets[0].label
	bestScore := setScore(c.sets[0].vecs, vec)
	for _, s := range c.sets[1:] {
		if score := setScore(s.vecs, vec); score > bestScore {
			best = s.label
			bestScore = score
		}
	}

	if c.minScore > 0 && bestScore < c.minScore {
		return "", bestScore, ErrAmbiguous
	}
	return best, bestScore, nil
}

// setScore is the maximum dot product between the query and any anchor.
func setScore(anchors [][]float32, query []float32) float64 {
	best := dot(anchors[0], query)
	for _, a := range anchors[1:] {
		if s := dot(a, query); s > best {
			best = s
		}
	}
	return best
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Package classify implements trainable intent classification: a feature
// extraction strategy feeding an optional standardize/project stage and a
// decision tree. Models build lazily on first use and rebuild from scratch
// when corrections arrive.
package classify

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/crimson-sun/pennyworth/internal/engine/corpus"
	"github.com/crimson-sun/pennyworth/internal/model"
)

var (
	// ErrNotTrained is returned when no model exists and one cannot be built.
	ErrNotTrained = errors.New("classify: no trained model")

	// ErrUnsupportedCategory is returned by Relabel for labels that have no
	// training set and therefore cannot learn from corrections.
	ErrUnsupportedCategory = errors.New("classify: category has no training set")
)

// Config controls how models are built.
type Config struct {
	// Strategy produces the feature extractor.
	Strategy Strategy

	// Standardize scales features to zero mean and unit variance before
	// projection.
	Standardize bool

	// Components is the projection dimensionality. Zero disables projection.
	Components int
}

// trained is one immutable generation of the classification pipeline.
// Readers load it atomically; retraining installs a replacement.
type trained struct {
	extractor Extractor
	scale     *scaler
	proj      *pca
	tree      *treeNode
	labels    []model.Intent
}

// Classifier predicts intents and accepts labelled corrections. Reads are
// lock-free against the current model; corrections serialize on a mutex and
// swap in a freshly trained model.
type Classifier struct {
	cfg Config

	mu       sync.Mutex // guards examples and retraining
	order    []model.Intent
	examples map[model.Intent][]string

	current atomic.Pointer[trained]
}

// New creates a classifier seeded from the given corpus sets. Sets without
// phrases are skipped; they can be predicted by other means but never
// trained or corrected here.
func New(cfg Config, sets []corpus.Set) (*Classifier, error) {
	if cfg.Strategy == nil {
		return nil, errors.New("classify: no strategy configured")
	}

	c := &Classifier{
		cfg:      cfg,
		examples: make(map[model.Intent][]string),
	}
	for _, s := range sets {
		if len(s.Phrases) == 0 {
			continue
		}
		c.order = append(c.order, s.Label)
		c.examples[s.Label] = append([]string(nil), s.Phrases...)
	}
	if len(c.order) < 2 {
		return nil, fmt.Errorf("classify: need at least 2 trainable labels, have %d", len(c.order))
	}
	return c, nil
}

// Classify predicts the intent of an utterance, training a model first if
// none exists yet.
func (c *Classifier) Classify(text string) (model.Intent, error) {
	m := c.current.Load()
	if m == nil {
		var err error
		m, err = c.ensureTrained()
		if err != nil {
			return "", err
		}
	}

	features, err := m.extractor.Extract(text)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	if m.scale != nil {
		features = m.scale.transform(features)
	}
	if m.proj != nil {
		features = m.proj.transform(features)
	}
	return m.labels[m.tree.predict(features)], nil
}

// Trained reports whether a model has been built.
func (c *Classifier) Trained() bool {
	return c.current.Load() != nil
}

// Relabel records a corrected label for an utterance and retrains. The
// example is kept even when retraining fails, so the next rebuild includes
// it. Labels without a training set are rejected.
func (c *Classifier) Relabel(text string, label model.Intent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.examples[label]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedCategory, label)
	}

	c.examples[label] = append(c.examples[label], text)

	m, err := c.train()
	if err != nil {
		return fmt.Errorf("classify: retrain after correction failed: %w", err)
	}
	c.current.Store(m)
	return nil
}

// ensureTrained builds the initial model, double-checking under the lock so
// concurrent first callers train only once.
func (c *Classifier) ensureTrained() (*trained, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m := c.current.Load(); m != nil {
		return m, nil
	}
	m, err := c.train()
	if err != nil {
		return nil, err
	}
	c.current.Store(m)
	return m, nil
}

// train builds a full pipeline from the current example sets. Callers must
// hold c.mu.
func (c *Classifier) train() (*trained, error) {
	var texts []string
	var labelIdx []int
	labels := append([]model.Intent(nil), c.order...)
	for i, label := range labels {
		for _, text := range c.examples[label] {
			texts = append(texts, text)
			labelIdx = append(labelIdx, i)
		}
	}
	if len(texts) == 0 {
		return nil, ErrNotTrained
	}

	extractor, err := c.cfg.Strategy.Fit(texts)
	if err != nil {
		return nil, err
	}
	rows, err := extractor.ExtractBatch(texts)
	if err != nil {
		return nil, fmt.Errorf("classify: feature extraction failed: %w", err)
	}

	m := &trained{extractor: extractor, labels: labels}

	if c.cfg.Standardize {
		m.scale = fitScaler(rows)
		rows = m.scale.transformAll(rows)
	}
	if c.cfg.Components > 0 {
		m.proj, err = fitPCA(rows, c.cfg.Components)
		if err != nil {
			return nil, err
		}
		rows = m.proj.transformAll(rows)
	}

	m.tree = fitTree(rows, labelIdx, len(labels))
	return m, nil
}

package pennyworth

import "path/filepath"

type options struct {
	modelDir   string
	modelPath  string
	vocabPath  string
	corpusPath string
	storePath  string
	categories []string
	components int
	minScore   float64
	maxRetries int
	fxKey      string
	geckoKey   string
	embedder   Embedder
}

// Option configures an Assistant.
type Option func(*options)

// WithModelDir sets the directory containing the embedding model files.
// Expects: model_quantized.onnx, vocab.txt.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit paths for the ONNX model and vocabulary.
// Use this when model files aren't in the default directory layout.
func WithModelPaths(model, vocab string) Option {
	return func(o *options) {
		o.modelPath = model
		o.vocabPath = vocab
	}
}

// WithEmbedder supplies a custom embedding backend instead of the bundled
// ONNX encoder. The Assistant takes ownership and closes it on Close.
func WithEmbedder(e Embedder) Option {
	return func(o *options) {
		o.embedder = e
	}
}

// WithCorpusFile loads the intent seed corpus from a YAML file instead of
// the built-in one.
func WithCorpusFile(path string) Option {
	return func(o *options) {
		o.corpusPath = path
	}
}

// WithStorePath sets the sqlite database path. Default: pennyworth.db.
func WithStorePath(path string) Option {
	return func(o *options) {
		o.storePath = path
	}
}

// WithCategories sets the accepted expense and budget categories.
func WithCategories(categories []string) Option {
	return func(o *options) {
		o.categories = categories
	}
}

// WithComponents sets the projection dimensionality of the finance
// classifier. Default: 4.
func WithComponents(n int) Option {
	return func(o *options) {
		o.components = n
	}
}

// WithMinScore sets the minimum similarity score a fallback match must
// reach; below it resolution fails. Default: 0, which accepts every match.
func WithMinScore(score float64) Option {
	return func(o *options) {
		o.minScore = score
	}
}

// WithMaxRetries sets how many consecutive failed answers a slot tolerates
// before the session aborts. Default: 3.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithMarketKeys sets the exchange-rate and CoinGecko API keys. The stock
// endpoint needs no key.
func WithMarketKeys(exchangeRate, coinGecko string) Option {
	return func(o *options) {
		o.fxKey = exchangeRate
		o.geckoKey = coinGecko
	}
}

func defaultOptions() options {
	return options{
		storePath:  "pennyworth.db",
		categories: []string{"groceries", "transport", "utilities", "entertainment"},
		components: 4,
		maxRetries: 3,
	}
}

// resolvePaths determines the model and vocab paths from the configured
// options. Explicit paths take precedence over modelDir.
func resolvePaths(o options) (model, vocab string) {
	if o.modelPath != "" {
		return o.modelPath, o.vocabPath
	}
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "model_quantized.onnx"), filepath.Join(dir, "vocab.txt")
}

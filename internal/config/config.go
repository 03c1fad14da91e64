package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all Pennyworth configuration.
type Config struct {
	Engine   EngineConfig
	Dialogue DialogueConfig
	Store    StoreConfig
	Market   MarketConfig
	Speech   SpeechConfig
	LogLevel string
	LogJSON  bool
}

// EngineConfig holds intent-resolution settings.
type EngineConfig struct {
	ModelPath  string  // ONNX embedding model
	VocabPath  string  // WordPiece vocab.txt
	Components int     // PCA output dimensionality for the fine classifier
	MinScore   float64 // similarity acceptance threshold; 0 accepts everything
	SeedPath   string  // optional YAML seed corpus overriding the built-in one
}

// DialogueConfig holds slot-filling session settings.
type DialogueConfig struct {
	MaxRetries int      // consecutive failures allowed per slot before aborting
	Categories []string // accepted expense/budget categories
}

// StoreConfig holds expense/budget persistence settings.
type StoreConfig struct {
	Path string // sqlite database path
}

// MarketConfig holds market data provider credentials.
type MarketConfig struct {
	ExchangeRateKey string
	CoinGeckoKey    string
}

// SpeechConfig holds prompt sink settings.
type SpeechConfig struct {
	TranscriptPath string // optional NDJSON conversation transcript
	ListenAddr     string // optional websocket gateway address, e.g. ":8477"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Engine: EngineConfig{
			ModelPath:  getenv("PENNY_MODEL_PATH", "models/model_quantized.onnx"),
			VocabPath:  getenv("PENNY_VOCAB_PATH", "models/vocab.txt"),
			Components: getenvInt("PENNY_PCA_DIM", 4),
			MinScore:   getenvFloat("PENNY_MIN_SIMILARITY", 0),
			SeedPath:   os.Getenv("PENNY_SEED_PATH"),
		},
		Dialogue: DialogueConfig{
			MaxRetries: getenvInt("PENNY_MAX_RETRIES", 3),
			Categories: getenvList("PENNY_CATEGORIES", defaultCategories),
		},
		Store: StoreConfig{
			Path: getenv("PENNY_DB_PATH", "pennyworth.db"),
		},
		Market: MarketConfig{
			ExchangeRateKey: os.Getenv("PENNY_EXCHANGERATE_API_KEY"),
			CoinGeckoKey:    os.Getenv("PENNY_COINGECKO_API_KEY"),
		},
		Speech: SpeechConfig{
			TranscriptPath: os.Getenv("PENNY_TRANSCRIPT_PATH"),
			ListenAddr:     os.Getenv("PENNY_LISTEN_ADDR"),
		},
		LogLevel: getenv("PENNY_LOG_LEVEL", "info"),
		LogJSON:  getenvBool("PENNY_LOG_JSON", false),
	}
}

var defaultCategories = []string{"groceries", "transport", "utilities", "entertainment"}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getenvList reads a comma-separated list, trimming whitespace around items.
func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

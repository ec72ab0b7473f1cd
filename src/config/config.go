package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every runtime knob. All values come from the environment
// so the same binary runs locally, in CI, and in a container unchanged.
type Config struct {
	Port string

	// StoreDriver selects the persistence backend: memory, sqlite,
	// postgres, or mongo.
	StoreDriver string
	DBPath      string
	DatabaseURL string
	MongoURI    string
	MongoDB     string

	LLMProvider string
	LLMModel    string

	EmbedProvider string
	EmbedModel    string

	MaxToolIterations int
	HistoryWindow     int
	SessionIdleTTL    time.Duration

	RecommendTopK  int
	RecommendFloor float64

	SeedCount int
	SeedValue int64
}

// Load reads the configuration from the environment, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		DBPath:      getEnv("DB_PATH", "goodfoods.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "goodfoods"),

		LLMProvider: getEnv("LLM_PROVIDER", "ollama"),
		LLMModel:    getEnv("LLM_MODEL", ""),

		EmbedProvider: getEnv("EMBED_PROVIDER", "dummy"),
		EmbedModel:    getEnv("EMBED_MODEL", ""),

		MaxToolIterations: getEnvInt("MAX_TOOL_ITERATIONS", 6),
		HistoryWindow:     getEnvInt("HISTORY_WINDOW", 40),
		SessionIdleTTL:    getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),

		RecommendTopK:  getEnvInt("RECOMMEND_TOP_K", 4),
		RecommendFloor: getEnvFloat("RECOMMEND_FLOOR", 0.25),

		SeedCount: getEnvInt("SEED_COUNT", 75),
		SeedValue: int64(getEnvInt("SEED_VALUE", 42)),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

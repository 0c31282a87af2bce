package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Retrieval RetrievalConfig
	Ai        AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// RetrievalConfig tunes the catalog resolution pipeline. Validated once at
// startup; a bad value must fail fast, not surface per request.
type RetrievalConfig struct {
	AdoptionMode      string
	AdoptionThreshold float64
	QueryBudget       int
	TopK              int
	ResultCacheTTL    time.Duration
	SnapshotTTL       time.Duration
	SynonymsPath      string
	UnitRulesPath     string
	EmbedTopic        string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	GoogleGemini      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Retrieval: RetrievalConfig{
			AdoptionMode:      getEnv("ADOPTION_MODE", "assistive"),
			AdoptionThreshold: getEnvAsFloat("ADOPTION_THRESHOLD", 0.82),
			QueryBudget:       getEnvAsInt("CATALOG_QUERY_BUDGET", 5),
			TopK:              getEnvAsInt("CATALOG_TOP_K", 5),
			ResultCacheTTL:    getEnvAsDuration("RESULT_CACHE_TTL", 5*time.Minute),
			SnapshotTTL:       getEnvAsDuration("CATALOG_SNAPSHOT_TTL", time.Minute),
			SynonymsPath:      getEnv("SYNONYMS_PATH", "config/synonyms.yaml"),
			UnitRulesPath:     getEnv("UNIT_RULES_PATH", "config/unit_rules.yaml"),
			EmbedTopic:        getEnv("EMBED_CATALOG_ITEM_TOPIC_NAME", "EMBED_CATALOG_ITEM"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
	}
}

// Validate rejects retrieval settings the engine cannot run with.
func (c RetrievalConfig) Validate() error {
	switch c.AdoptionMode {
	case "assistive", "strict", "merge":
	default:
		return fmt.Errorf("invalid ADOPTION_MODE %q", c.AdoptionMode)
	}
	if c.AdoptionThreshold < 0 || c.AdoptionThreshold > 1 {
		return fmt.Errorf("ADOPTION_THRESHOLD %v out of [0,1]", c.AdoptionThreshold)
	}
	if c.QueryBudget <= 0 {
		return fmt.Errorf("CATALOG_QUERY_BUDGET must be positive, got %d", c.QueryBudget)
	}
	if c.TopK <= 0 || c.TopK > 25 {
		return fmt.Errorf("CATALOG_TOP_K must be in [1,25], got %d", c.TopK)
	}
	if c.ResultCacheTTL <= 0 || c.SnapshotTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

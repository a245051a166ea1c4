package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Redis (asynq queue backend and API rate limiting)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret         string
	APIToken          string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	// LLM completion provider: "gemini", "groq" or "openai"
	LLMProvider  string
	GeminiAPIKey string
	GroqAPIKey   string
	OpenAIAPIKey string

	// Embeddings
	EmbeddingsProvider    string // "gemini" (default); anything else falls back to hashing
	GoogleEmbeddingsModel string
	VectorDimensions      int

	// Search index: "mongo" (default) or "memory" for offline development
	IndexBackend    string
	ChunkCollection string

	// Crawler
	DefaultMaxPages  int
	MaxChunkSize     int
	MinContentLength int
	CrawlBatchSize   int
	PageTimeout      time.Duration
	RenderJS         bool

	// Scheduler
	SchedulerInterval time.Duration

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Telemetry
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/elasti"),
		DBName:      getEnv("DB_NAME", "elasti"),
		Port:        getEnv("PORT", "3000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		APIToken:          getEnv("API_TOKEN", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		EmbeddingsProvider:    getEnv("EMBEDDING_PROVIDER", getEnv("LLM_PROVIDER", "gemini")),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		VectorDimensions:      getEnvInt("VECTOR_DIM", 768),

		IndexBackend:    getEnv("INDEX_BACKEND", "mongo"),
		ChunkCollection: getEnv("CHUNK_COLLECTION", "chunks"),

		DefaultMaxPages:  getEnvInt("DEFAULT_MAX_PAGES", 50),
		MaxChunkSize:     getEnvInt("MAX_CHUNK_SIZE", 1000),
		MinContentLength: getEnvInt("MIN_CONTENT_LENGTH", 100),
		CrawlBatchSize:   getEnvInt("CRAWL_BATCH_SIZE", 20),
		PageTimeout:      getEnvDuration("PAGE_TIMEOUT", 30*time.Second),
		RenderJS:         getEnvBool("CRAWLER_RENDER_JS", true),

		SchedulerInterval: getEnvDuration("SCHEDULER_INTERVAL", 60*time.Second),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required - set it in .env file")
	}

	if cfg.APIToken == "" {
		return nil, fmt.Errorf("API_TOKEN is required - set it in .env file")
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required - set one in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

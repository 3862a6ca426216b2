package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Store settings
	StoreDriver  string
	DatabasePath string
	PostgresDSN  string
	Location     *time.Location

	// Text generation settings
	GeminiAPIKey     string
	GeminiModel      string
	ChatTimeout      time.Duration
	ChatSessionIdle  time.Duration
	ChatHistoryLimit int

	// Cache settings
	CacheSize        int
	LocationCacheTTL time.Duration
	LocationTimeout  time.Duration

	// Renderer settings
	RenderTimeout        time.Duration
	MaxConcurrentRenders int
	HeadlessMode         bool
	BrowserPath          string
	UserAgent            string

	// Analytics settings
	RecentRecordsLimit int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:         getEnv("HOST", "0.0.0.0"),
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		StoreDriver:  getEnv("STORE_DRIVER", "sqlite"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/complaints.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		BrowserPath:  getEnv("ROD_BROWSER_PATH", ""),
		UserAgent:    getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	}

	switch cfg.StoreDriver {
	case "sqlite":
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q", cfg.StoreDriver)
	}

	var err error
	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	chatTimeout, err := strconv.Atoi(getEnv("CHAT_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_TIMEOUT: %w", err)
	}
	cfg.ChatTimeout = time.Duration(chatTimeout) * time.Second

	sessionIdle, err := strconv.Atoi(getEnv("CHAT_SESSION_IDLE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_SESSION_IDLE: %w", err)
	}
	cfg.ChatSessionIdle = time.Duration(sessionIdle) * time.Minute

	cfg.ChatHistoryLimit, err = strconv.Atoi(getEnv("CHAT_HISTORY_LIMIT", "40"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_HISTORY_LIMIT: %w", err)
	}

	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	locationTTL, err := strconv.Atoi(getEnv("LOCATION_CACHE_TTL", "720"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_CACHE_TTL: %w", err)
	}
	cfg.LocationCacheTTL = time.Duration(locationTTL) * time.Minute

	locationTimeout, err := strconv.Atoi(getEnv("LOCATION_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_TIMEOUT: %w", err)
	}
	cfg.LocationTimeout = time.Duration(locationTimeout) * time.Second

	renderTimeout, err := strconv.Atoi(getEnv("RENDER_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RENDER_TIMEOUT: %w", err)
	}
	cfg.RenderTimeout = time.Duration(renderTimeout) * time.Second

	cfg.MaxConcurrentRenders, err = strconv.Atoi(getEnv("MAX_CONCURRENT_RENDERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_RENDERS: %w", err)
	}

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "true") == "true"

	cfg.RecentRecordsLimit, err = strconv.Atoi(getEnv("RECENT_RECORDS_LIMIT", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECENT_RECORDS_LIMIT: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

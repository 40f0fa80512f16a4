package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize  int
	CacheTTL   time.Duration
	RedisURL   string
	SessionTTL time.Duration

	// Authority settings
	PortalBaseURL string
	PortalAPIURL  string
	PortalTimeout time.Duration
	UserAgent     string

	// Lookups issued concurrently by one aggregation
	MaxConcurrentLookups int

	DownloadDir string
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
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/consultations.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		RedisURL:      getEnv("REDIS_URL", ""),
		PortalBaseURL: getEnv("PORTAL_BASE_URL", "https://consultaprocesos.ramajudicial.gov.co"),
		PortalAPIURL:  getEnv("PORTAL_API_URL", "https://consultaprocesos.ramajudicial.gov.co:448/api"),
		UserAgent:     getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		DownloadDir:   getEnv("DOWNLOAD_DIR", "./data/documents"),
	}

	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = time.Duration(sessionTTL) * time.Minute

	portalTimeout, err := strconv.Atoi(getEnv("PORTAL_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORTAL_TIMEOUT: %w", err)
	}
	cfg.PortalTimeout = time.Duration(portalTimeout) * time.Second

	cfg.MaxConcurrentLookups, err = strconv.Atoi(getEnv("MAX_CONCURRENT_LOOKUPS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_LOOKUPS: %w", err)
	}
	if cfg.MaxConcurrentLookups < 1 {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_LOOKUPS: must be at least 1")
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

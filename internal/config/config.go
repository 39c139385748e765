package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// CORS
	CORSOrigins []string

	// CMS API
	CMSAPIURL       string
	APITimeout      time.Duration
	APIRatePerSec   float64
	APIBurst        int
	MaxUploadSize   int64
	DemoMode        bool
	PageCacheTTL    time.Duration
	ProfileCacheTTL time.Duration

	// Sessions
	SessionSecret       string
	SessionCookieName   string
	SessionCookieSecure bool
	SessionTTL          time.Duration
	ReaperInterval      time.Duration

	// Editor
	TransitionDuration time.Duration

	// Redis
	EnableRedis bool
	RedisURL    string

	// Database (drafts)
	EnableDrafts bool
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	DatabaseURL  string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableMetrics bool
}

func New() *Config {
	c := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),

		// CORS
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// CMS API
		CMSAPIURL:       strings.TrimRight(getEnv("CMS_API_URL", "http://localhost:8000"), "/"),
		APITimeout:      getEnvAsDuration("CMS_API_TIMEOUT", 10*time.Second),
		APIRatePerSec:   getEnvAsFloat("CMS_API_RATE", 20),
		APIBurst:        getEnvAsInt("CMS_API_BURST", 40),
		MaxUploadSize:   int64(getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10)) * 1024 * 1024,
		DemoMode:        getEnvAsBool("DEMO_MODE", false),
		PageCacheTTL:    getEnvAsDuration("PAGE_CACHE_TTL", time.Minute),
		ProfileCacheTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 5*time.Minute),

		// Sessions
		SessionSecret:       getEnv("SESSION_SECRET", "change-this-dashboard-session-secret"),
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "kirin_session"),
		SessionCookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		ReaperInterval:      getEnvAsDuration("SESSION_REAPER_INTERVAL", time.Minute),

		// Editor
		TransitionDuration: getEnvAsDuration("CAROUSEL_TRANSITION", 500*time.Millisecond),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", false),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// Database
		EnableDrafts: getEnvAsBool("ENABLE_DRAFTS", false),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "kirin"),
		DBPassword:   getEnv("DB_PASSWORD", "kirin"),
		DBName:       getEnv("DB_NAME", "kirin_dashboard"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Features
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}

	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	for i, origin := range c.CORSOrigins {
		c.CORSOrigins[i] = strings.TrimSpace(origin)
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value float64
	if _, err := fmt.Sscanf(valueStr, "%g", &value); err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

// getEnvAsDuration accepts Go duration strings ("90s") or plain seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	var seconds int
	if _, err := fmt.Sscanf(valueStr, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

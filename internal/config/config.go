package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	PostgreSQL PostgreSQLConfig
	Redis      RedisConfig
	RapidAPI   RapidAPIConfig
	Geocoder   GeocoderConfig
	OpenAI     OpenAIConfig
	Search     SearchConfig
	Agent      AgentConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// PostgreSQLConfig holds the audit database configuration.
// Logging searches and turns is skipped when no DSN is set.
type PostgreSQLConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// RedisConfig holds session store configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Enabled  bool
}

// RapidAPIConfig holds hotel-search provider configuration
type RapidAPIConfig struct {
	APIKey  string
	Host    string
	BaseURL string
	Timeout time.Duration
	Enabled bool
}

// GeocoderConfig holds geocoding provider configuration
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
}

// OpenAIConfig holds OpenAI-compatible chat completion configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatTopP        float64
	ChatMaxTokens   int
	Timeout         int
	Enabled         bool
}

// SearchConfig holds search pipeline defaults
type SearchConfig struct {
	DefaultMaxDistanceKm float64
	DefaultCurrency      string
	AgentResultLimit     int
}

// AgentConfig holds conversational agent settings
type AgentConfig struct {
	MaxIterations int
	SessionTTL    time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RapidAPI: RapidAPIConfig{
			APIKey:  getEnv("RAPIDAPI_KEY", ""),
			Host:    getEnv("RAPIDAPI_HOST", "booking-com15.p.rapidapi.com"),
			BaseURL: getEnv("RAPIDAPI_BASE_URL", "https://booking-com15.p.rapidapi.com/api/v1/hotels"),
			Timeout: getEnvAsDuration("RAPIDAPI_TIMEOUT", 15*time.Second),
		},
		Geocoder: GeocoderConfig{
			BaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "hotelsearch/1.0"),
			Language:  getEnv("GEOCODER_LANGUAGE", "en"),
			Timeout:   getEnvAsDuration("GEOCODER_TIMEOUT", 10*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			ChatTopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
		},
		Search: SearchConfig{
			DefaultMaxDistanceKm: getEnvAsFloat("SEARCH_DEFAULT_MAX_DISTANCE_KM", 10),
			DefaultCurrency:      strings.ToUpper(getEnv("SEARCH_DEFAULT_CURRENCY", "USD")),
			AgentResultLimit:     getEnvAsInt("SEARCH_AGENT_RESULT_LIMIT", 5),
		},
		Agent: AgentConfig{
			MaxIterations: getEnvAsInt("AGENT_MAX_ITERATIONS", 5),
			SessionTTL:    getEnvAsDuration("AGENT_SESSION_TTL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cfg.PostgreSQL.Enabled = cfg.PostgreSQL.DSN != ""
	cfg.Redis.Enabled = cfg.Redis.Address != ""
	cfg.RapidAPI.Enabled = cfg.RapidAPI.APIKey != ""
	cfg.OpenAI.Enabled = cfg.OpenAI.APIKey != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would break the search pipeline or the agent
func (c *Config) Validate() error {
	if c.Search.DefaultMaxDistanceKm <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_MAX_DISTANCE_KM must be positive, got %v", c.Search.DefaultMaxDistanceKm)
	}
	if len(c.Search.DefaultCurrency) != 3 {
		return fmt.Errorf("SEARCH_DEFAULT_CURRENCY must be a 3-letter code, got %q", c.Search.DefaultCurrency)
	}
	if c.Search.AgentResultLimit < 1 {
		return fmt.Errorf("SEARCH_AGENT_RESULT_LIMIT must be at least 1")
	}
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("AGENT_MAX_ITERATIONS must be at least 1")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

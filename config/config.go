package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Supabase  SupabaseConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Session   SessionConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AdminToken     string   `mapstructure:"admin_token"` // enables the catalog refresh route when set
}

// SupabaseConfig holds the hosted backend's REST settings
type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Table  string `mapstructure:"table"`
}

// CatalogConfig controls where venues are read from
type CatalogConfig struct {
	Source            string        `mapstructure:"source"` // "supabase" or "file"
	FilePath          string        `mapstructure:"file_path"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL        string        `mapstructure:"redis_url"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// SessionConfig holds questionnaire session configuration
type SessionConfig struct {
	CalculatingDelay time.Duration `mapstructure:"calculating_delay"`
	TTL              time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds recommendation engine configuration
type MatchingConfig struct {
	TopN               int  `mapstructure:"top_n"`
	MaxRegionOptions   int  `mapstructure:"max_region_options"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dinebook/")

	// Environment variable settings: server.port -> DINEBOOK_SERVER_PORT
	v.SetEnvPrefix("DINEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment if it exists.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.admin_token", "")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.api_key", "")
	v.SetDefault("supabase.table", "restaurants")

	v.SetDefault("catalog.source", "supabase")
	v.SetDefault("catalog.file_path", "")
	v.SetDefault("catalog.cache_ttl", "5m")
	v.SetDefault("catalog.requests_per_second", 5.0)
	v.SetDefault("catalog.burst", 10)
	v.SetDefault("catalog.timeout", "10s")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "dinebook:")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("session.calculating_delay", "1500ms")
	v.SetDefault("session.ttl", "30m")

	v.SetDefault("matching.top_n", 3)
	v.SetDefault("matching.max_region_options", 5)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "supabase":
		if config.Supabase.URL == "" {
			return fmt.Errorf("Supabase URL is required (set DINEBOOK_SUPABASE_URL)")
		}
		if config.Supabase.APIKey == "" {
			return fmt.Errorf("Supabase API key is required (set DINEBOOK_SUPABASE_API_KEY)")
		}
	case "file":
		if config.Catalog.FilePath == "" {
			return fmt.Errorf("catalog file path is required when catalog source is 'file'")
		}
	default:
		return fmt.Errorf("catalog source must be 'supabase' or 'file', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Session.CalculatingDelay < 0 {
		return fmt.Errorf("session calculating delay must not be negative")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configEnvVars = []string{
	"DINEBOOK_SERVER_PORT",
	"DINEBOOK_SERVER_ENVIRONMENT",
	"DINEBOOK_SERVER_ALLOWED_ORIGINS",
	"DINEBOOK_SUPABASE_URL",
	"DINEBOOK_SUPABASE_API_KEY",
	"DINEBOOK_SUPABASE_TABLE",
	"DINEBOOK_CATALOG_SOURCE",
	"DINEBOOK_CATALOG_FILE_PATH",
	"DINEBOOK_CATALOG_CACHE_TTL",
	"DINEBOOK_CATALOG_BURST",
	"DINEBOOK_SERVER_ADMIN_TOKEN",
	"DINEBOOK_CACHE_TYPE",
	"DINEBOOK_CACHE_REDIS_URL",
	"DINEBOOK_SESSION_CALCULATING_DELAY",
	"DINEBOOK_SESSION_TTL",
	"DINEBOOK_MATCHING_TOP_N",
	"DINEBOOK_RATELIMIT_PER_IP",
	"DINEBOOK_LOG_LEVEL",
	"DINEBOOK_LOG_FORMAT",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, key := range configEnvVars {
			os.Unsetenv(key)
		}
	}

	setRequired := func() {
		os.Setenv("DINEBOOK_SUPABASE_URL", "https://project.supabase.co")
		os.Setenv("DINEBOOK_SUPABASE_API_KEY", "anon-key")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Supabase.Table != "restaurants" {
			t.Errorf("Supabase.Table = %s, want restaurants", cfg.Supabase.Table)
		}
		if cfg.Catalog.Source != "supabase" {
			t.Errorf("Catalog.Source = %s, want supabase", cfg.Catalog.Source)
		}
		if cfg.Catalog.CacheTTL != 5*time.Minute {
			t.Errorf("Catalog.CacheTTL = %v, want 5m", cfg.Catalog.CacheTTL)
		}
		if cfg.Catalog.Burst != 10 {
			t.Errorf("Catalog.Burst = %d, want 10", cfg.Catalog.Burst)
		}
		if cfg.Server.AdminToken != "" {
			t.Errorf("Server.AdminToken = %q, want empty", cfg.Server.AdminToken)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Session.CalculatingDelay != 1500*time.Millisecond {
			t.Errorf("Session.CalculatingDelay = %v, want 1.5s", cfg.Session.CalculatingDelay)
		}
		if cfg.Session.TTL != 30*time.Minute {
			t.Errorf("Session.TTL = %v, want 30m", cfg.Session.TTL)
		}
		if cfg.Matching.TopN != 3 {
			t.Errorf("Matching.TopN = %d, want 3", cfg.Matching.TopN)
		}
		if cfg.Matching.MaxRegionOptions != 5 {
			t.Errorf("Matching.MaxRegionOptions = %d, want 5", cfg.Matching.MaxRegionOptions)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		os.Setenv("DINEBOOK_SERVER_PORT", "9090")
		os.Setenv("DINEBOOK_SERVER_ENVIRONMENT", "production")
		os.Setenv("DINEBOOK_SERVER_ALLOWED_ORIGINS", "https://dinebook.app,https://admin.dinebook.app")
		os.Setenv("DINEBOOK_CACHE_TYPE", "redis")
		os.Setenv("DINEBOOK_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("DINEBOOK_SESSION_CALCULATING_DELAY", "2s")
		os.Setenv("DINEBOOK_MATCHING_TOP_N", "5")
		os.Setenv("DINEBOOK_RATELIMIT_PER_IP", "200")
		os.Setenv("DINEBOOK_LOG_FORMAT", "json")
		os.Setenv("DINEBOOK_CATALOG_BURST", "3")
		os.Setenv("DINEBOOK_SERVER_ADMIN_TOKEN", "s3cret")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if got := strings.Join(cfg.Server.AllowedOrigins, ","); got != "https://dinebook.app,https://admin.dinebook.app" {
			t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
		}
		if cfg.Supabase.URL != "https://project.supabase.co" {
			t.Errorf("Supabase.URL = %s, want https://project.supabase.co", cfg.Supabase.URL)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Session.CalculatingDelay != 2*time.Second {
			t.Errorf("Session.CalculatingDelay = %v, want 2s", cfg.Session.CalculatingDelay)
		}
		if cfg.Matching.TopN != 5 {
			t.Errorf("Matching.TopN = %d, want 5", cfg.Matching.TopN)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
		}
		if cfg.Catalog.Burst != 3 {
			t.Errorf("Catalog.Burst = %d, want 3", cfg.Catalog.Burst)
		}
		if cfg.Server.AdminToken != "s3cret" {
			t.Errorf("Server.AdminToken = %q, want s3cret", cfg.Server.AdminToken)
		}
	})

	t.Run("fails validation when Supabase URL is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("DINEBOOK_SUPABASE_API_KEY", "anon-key")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing Supabase URL")
		}
		if err.Error() != "invalid configuration: Supabase URL is required (set DINEBOOK_SUPABASE_URL)" {
			t.Errorf("Load() error = %v, want 'Supabase URL is required'", err)
		}
	})

	t.Run("file source does not need Supabase credentials", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("DINEBOOK_CATALOG_SOURCE", "file")
		os.Setenv("DINEBOOK_CATALOG_FILE_PATH", "testdata/venues.json")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Catalog.FilePath != "testdata/venues.json" {
			t.Errorf("Catalog.FilePath = %s, want testdata/venues.json", cfg.Catalog.FilePath)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		os.Setenv("DINEBOOK_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1

# TEST_COMMENTED=should_not_load
TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Supabase: SupabaseConfig{URL: "https://project.supabase.co", APIKey: "anon-key"},
			Catalog:  CatalogConfig{Source: "supabase"},
			Cache:    CacheConfig{Type: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid supabase config", func(c *Config) {}, false},
		{"missing API key", func(c *Config) { c.Supabase.APIKey = "" }, true},
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "ftp" }, true},
		{"file source without path", func(c *Config) { c.Catalog.Source = "file" }, true},
		{"file source with path", func(c *Config) {
			c.Catalog.Source = "file"
			c.Catalog.FilePath = "venues.json"
		}, false},
		{"invalid cache type", func(c *Config) { c.Cache.Type = "invalid-type" }, true},
		{"redis with URL", func(c *Config) {
			c.Cache.Type = "redis"
			c.Cache.RedisURL = "redis://localhost:6379"
		}, false},
		{"redis without URL", func(c *Config) { c.Cache.Type = "redis" }, true},
		{"negative calculating delay", func(c *Config) { c.Session.CalculatingDelay = -time.Second }, true},
		{"negative rate limit", func(c *Config) { c.RateLimit.PerIP = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

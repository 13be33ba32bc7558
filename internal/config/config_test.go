package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/formcraft?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("env = %q, want development", cfg.Server.Env)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("token ttl = %v, want 168h", cfg.Auth.TokenTTL)
	}
	if cfg.RateLimit.SubmitLimit != 10 || cfg.RateLimit.SubmitWindow != 10*time.Minute {
		t.Errorf("submit limit = %d/%v, want 10/10m", cfg.RateLimit.SubmitLimit, cfg.RateLimit.SubmitWindow)
	}
	if cfg.RateLimit.AuthLimit != 10 || cfg.RateLimit.AuthWindow != time.Minute {
		t.Errorf("auth limit = %d/%v, want 10/1m", cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow)
	}
	if cfg.Analytics.FieldWindow != "window" {
		t.Errorf("field window = %q, want window", cfg.Analytics.FieldWindow)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("redis url = %q, want empty", cfg.Redis.URL)
	}
}

func TestLoadPrefixedOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FORMCRAFT_SERVER_PORT", "9090")
	t.Setenv("FORMCRAFT_RATELIMIT_SUBMIT_WINDOW", "30s")
	t.Setenv("FORMCRAFT_ANALYTICS_FIELD_WINDOW", "all")
	t.Setenv("FORMCRAFT_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.RateLimit.SubmitWindow != 30*time.Second {
		t.Errorf("submit window = %v, want 30s", cfg.RateLimit.SubmitWindow)
	}
	if cfg.Analytics.FieldWindow != "all" {
		t.Errorf("field window = %q, want all", cfg.Analytics.FieldWindow)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("allowed origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("redis url = %q", cfg.Redis.URL)
	}
}

func TestLoadUnprefixedPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "3001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "3001" {
		t.Errorf("port = %q, want 3001", cfg.Server.Port)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("error = %v, want DATABASE_URL is required", err)
	}
}

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: "8080", Env: "development"},
		Database:  DatabaseConfig{URL: "postgres://x"},
		Auth:      AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
		RateLimit: RateLimitConfig{SubmitLimit: 10, SubmitWindow: time.Minute, AuthLimit: 10, AuthWindow: time.Minute},
		Analytics: AnalyticsConfig{FieldWindow: "window"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET is required"},
		{"placeholder in development", func(c *Config) { c.Auth.JWTSecret = PlaceholderJWTSecret }, ""},
		{"placeholder in production", func(c *Config) {
			c.Server.Env = "production"
			c.Auth.JWTSecret = PlaceholderJWTSecret
		}, "placeholder"},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"zero limit", func(c *Config) { c.RateLimit.SubmitLimit = 0 }, "at least 1"},
		{"zero window", func(c *Config) { c.RateLimit.AuthWindow = 0 }, "windows"},
		{"bad field window", func(c *Config) { c.Analytics.FieldWindow = "forever" }, "field_window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

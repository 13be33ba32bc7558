package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PlaceholderJWTSecret is the value shipped in example env files. It is
// refused in production.
const PlaceholderJWTSecret = "change-me"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	Env           string `mapstructure:"env"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RedisConfig selects the rate-limit store. An empty URL keeps counters in memory.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type RateLimitConfig struct {
	SubmitLimit  int           `mapstructure:"submit_limit"`
	SubmitWindow time.Duration `mapstructure:"submit_window"`
	AuthLimit    int           `mapstructure:"auth_limit"`
	AuthWindow   time.Duration `mapstructure:"auth_window"`
}

type AnalyticsConfig struct {
	// FieldWindow is "window" (field analytics over the last 30 days) or "all".
	FieldWindow string `mapstructure:"field_window"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from a .env file, environment variables and an
// optional config.yaml.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FORMCRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional unprefixed names used by hosting platforms
	_ = v.BindEnv("server.port", "FORMCRAFT_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "FORMCRAFT_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "FORMCRAFT_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("redis.url", "FORMCRAFT_REDIS_URL", "REDIS_URL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.public_base_url", "http://localhost:3000")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("redis.url", "")
	v.SetDefault("ratelimit.submit_limit", 10)
	v.SetDefault("ratelimit.submit_window", 10*time.Minute)
	v.SetDefault("ratelimit.auth_limit", 10)
	v.SetDefault("ratelimit.auth_window", time.Minute)
	v.SetDefault("analytics.field_window", "window")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

func fromViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Env values arrive as one comma separated string
	if len(config.CORS.AllowedOrigins) == 1 && strings.Contains(config.CORS.AllowedOrigins[0], ",") {
		config.CORS.AllowedOrigins = splitList(config.CORS.AllowedOrigins[0])
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.IsProduction() && c.Auth.JWTSecret == PlaceholderJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed from the placeholder value in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.RateLimit.SubmitLimit < 1 || c.RateLimit.AuthLimit < 1 {
		return fmt.Errorf("rate limits must be at least 1")
	}
	if c.RateLimit.SubmitWindow <= 0 || c.RateLimit.AuthWindow <= 0 {
		return fmt.Errorf("rate limit windows must be positive")
	}
	switch c.Analytics.FieldWindow {
	case "window", "all":
	default:
		return fmt.Errorf("analytics.field_window must be \"window\" or \"all\", got %q", c.Analytics.FieldWindow)
	}
	return nil
}

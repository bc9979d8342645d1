package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/auth0-gate/utils"
)

// DefaultAllowedOrigins is used when CORS_ALLOWED_ORIGINS is unset
var DefaultAllowedOrigins = []string{"http://localhost:*", "https://*"}

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string `env:"ENVIRONMENT"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST"`
	Port            int           `env:"SERVER_PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// AuthConfig holds the Auth0 tenant the gateway trusts
type AuthConfig struct {
	Domain   string `env:"AUTH0_DOMAIN" validate:"required"`
	Audience string `env:"AUTH0_API_AUDIENCE" validate:"required"`

	// JWKSTimeout bounds each key-set download
	JWKSTimeout time.Duration `env:"AUTH0_JWKS_TIMEOUT" validate:"gt=0"`
	// JWKSCacheTTL of zero refetches the key set on every request
	JWKSCacheTTL time.Duration `env:"AUTH0_JWKS_CACHE_TTL" validate:"gte=0"`
	ClockSkew    time.Duration `env:"AUTH0_CLOCK_SKEW" validate:"gte=0"`
}

// CORSConfig holds cross-origin settings for browser clients
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `env:"LOG_LEVEL" validate:"required"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=json console text"`
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists; real environment variables win
	_ = godotenv.Load(".env")

	var errs []error
	duration := func(key string, defaultValue time.Duration) time.Duration {
		value, err := getEnvAsDuration(key, defaultValue)
		if err != nil {
			errs = append(errs, err)
		}
		return value
	}
	port, err := getPort()
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            port,
			ReadTimeout:     duration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: duration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Domain:       normalizeDomain(getEnv("AUTH0_DOMAIN", "")),
			Audience:     getEnv("AUTH0_API_AUDIENCE", ""),
			JWKSTimeout:  duration("AUTH0_JWKS_TIMEOUT", 5*time.Second),
			JWKSCacheTTL: duration("AUTH0_JWKS_CACHE_TTL", 0),
			ClockSkew:    duration("AUTH0_CLOCK_SKEW", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	return utils.ValidateStruct(c)
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Issuer returns the iss claim tokens from this tenant carry
func (c *AuthConfig) Issuer() string {
	return "https://" + c.Domain + "/"
}

// JWKSURL returns the tenant's well-known key set endpoint
func (c *AuthConfig) JWKSURL() string {
	return "https://" + c.Domain + "/.well-known/jwks.json"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// normalizeDomain accepts "tenant.auth0.com", "https://tenant.auth0.com" or "tenant.auth0.com/"
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() (int, error) {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		p, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a port number", key, value)
		}
		return p, nil
	}
	return 8080, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// getEnvAsDuration parses values like "5s" or "10m"; a bare number is an error
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

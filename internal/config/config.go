package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kevin07696/card-gateway/internal/adapters/aim"
)

// Config holds all application configuration
type Config struct {
	Gateway GatewayConfig
	Logger  LoggerConfig
	Metrics MetricsConfig
}

// GatewayConfig holds card gateway account and transport configuration
type GatewayConfig struct {
	AccountID       string        // Merchant account id issued by the gateway
	RegistrationKey string        // Secret registration key; never logged
	Sandbox         bool          // Post to the sandbox endpoint
	URL             string        // Overrides the sandbox/live endpoint when set
	Timeout         time.Duration // Per-post timeout (default: 30s)
	RateLimit       float64       // Posts per second, 0 = unlimited
	RateBurst       int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Port int // 0 disables the metrics server
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			AccountID:       getEnv("GATEWAY_ACCOUNT_ID", ""),
			RegistrationKey: getEnv("GATEWAY_REGISTRATION_KEY", ""),
			Sandbox:         getEnvAsBool("GATEWAY_SANDBOX", true),
			URL:             getEnv("GATEWAY_URL", ""),
			Timeout:         time.Duration(getEnvAsInt("GATEWAY_TIMEOUT", 30)) * time.Second,
			RateLimit:       getEnvAsFloat("GATEWAY_RATE_LIMIT", 0),
			RateBurst:       getEnvAsInt("GATEWAY_RATE_BURST", 1),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Metrics: MetricsConfig{
			Port: getEnvAsInt("METRICS_PORT", 0),
		},
	}

	// Validate required fields
	if cfg.Gateway.AccountID == "" {
		return nil, fmt.Errorf("GATEWAY_ACCOUNT_ID is required")
	}
	if cfg.Gateway.RegistrationKey == "" {
		return nil, fmt.Errorf("GATEWAY_REGISTRATION_KEY is required")
	}
	if cfg.Gateway.Timeout <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	if cfg.Gateway.RateLimit < 0 {
		return nil, fmt.Errorf("GATEWAY_RATE_LIMIT must not be negative")
	}

	return cfg, nil
}

// Credentials returns the adapter credentials for this account
func (c *GatewayConfig) Credentials() aim.Credentials {
	return aim.Credentials{
		AccountID:       c.AccountID,
		RegistrationKey: c.RegistrationKey,
		Sandbox:         c.Sandbox,
	}
}

// AdapterConfig returns the adapter configuration, honoring a URL override
func (c *GatewayConfig) AdapterConfig() *aim.Config {
	cfg := aim.DefaultConfig(c.Credentials())
	if c.URL != "" {
		cfg.SandboxURL = c.URL
		cfg.LiveURL = c.URL
	}
	return cfg
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
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
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

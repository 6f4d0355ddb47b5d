package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	LogLevel    string
	Backend     BackendConfig
	Session     SessionConfig
	Stub        StubConfig
}

// BackendConfig points the client at the external storefront backend.
// The cart and orders APIs historically lived on different hosts, so both
// base URLs are configurable independently.
type BackendConfig struct {
	CartBaseURL   string
	OrdersBaseURL string
	Timeout       time.Duration
}

type SessionConfig struct {
	FilePath string
}

// StubConfig configures the local development backend. TokenUser and
// TokenHash provision one session (grant-session prints the hash).
type StubConfig struct {
	Port      string
	TokenUser string
	TokenHash string
	Database  DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a Postgres-backed stub repository was configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CART_API_BASE_URL", "http://localhost:5000/api/cart")
	viper.SetDefault("ORDERS_API_BASE_URL", "http://localhost:5000/api/orders")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", "30")
	viper.SetDefault("STUB_PORT", "5000")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeoutSeconds := viper.GetInt("HTTP_TIMEOUT_SECONDS")
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	sessionFile := getEnvOrViper("SESSION_FILE", "")
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory for session file: %w", err)
		}
		sessionFile = home + "/.storefront-session"
	}

	cfg := &Config{
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Backend: BackendConfig{
			CartBaseURL:   getEnvOrViper("CART_API_BASE_URL", "http://localhost:5000/api/cart"),
			OrdersBaseURL: getEnvOrViper("ORDERS_API_BASE_URL", "http://localhost:5000/api/orders"),
			Timeout:       time.Duration(timeoutSeconds) * time.Second,
		},
		Session: SessionConfig{
			FilePath: sessionFile,
		},
		Stub: StubConfig{
			Port:      getEnvOrViper("STUB_PORT", "5000"),
			TokenUser: getEnvOrViper("STUB_TOKEN_USER", ""),
			TokenHash: getEnvOrViper("STUB_TOKEN_HASH", ""),
			Database: DatabaseConfig{
				Host:     getEnvOrViper("DB_HOST", ""),
				Port:     getEnvOrViper("DB_PORT", "5432"),
				User:     getEnvOrViper("DB_USER", "postgres"),
				Password: getEnvOrViper("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrViper("DB_NAME", "storefront"),
				SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
			},
		},
	}

	// Validate required fields
	if cfg.Backend.CartBaseURL == "" {
		return nil, fmt.Errorf("CART_API_BASE_URL is required")
	}
	if cfg.Backend.OrdersBaseURL == "" {
		return nil, fmt.Errorf("ORDERS_API_BASE_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for an extraction/generation run.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RPC      RPCConfig
	Provider ProviderConfig
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	Env string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL.
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RPCConfig holds paths to the RPC endpoint config files and extraction tuning.
type RPCConfig struct {
	ConfigPath      string
	BaseConfigPath  string
	MaxNumThreads   int
	RequestTimeout  time.Duration
	InitialBackoff  time.Duration
}

// ProviderConfig holds the token metadata/price provider credentials.
type ProviderConfig struct {
	APIKey         string
	MetadataURL    string
	PriceURL       string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables, applying the same
// defaults-with-override pattern used throughout this codebase.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "xchaindata"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RPC: RPCConfig{
			ConfigPath:     getEnv("RPC_CONFIG_PATH", "config/rpcs_config.yaml"),
			BaseConfigPath: getEnv("RPC_BASE_CONFIG_PATH", "config/rpcs_base_config.yaml"),
			MaxNumThreads:  getEnvAsInt("MAX_NUM_THREADS_EXTRACTOR", 10),
			RequestTimeout: getEnvAsDuration("RPC_REQUEST_TIMEOUT", 10*time.Second),
			InitialBackoff: getEnvAsDuration("RPC_INITIAL_BACKOFF", 1*time.Second),
		},
		Provider: ProviderConfig{
			APIKey:         getEnv("PROVIDER_API_KEY", ""),
			MetadataURL:    getEnv("PROVIDER_METADATA_URL", "https://api.g.alchemy.com/data/v1"),
			PriceURL:       getEnv("PROVIDER_PRICE_URL", "https://api.g.alchemy.com/prices/v1"),
			RequestTimeout: getEnvAsDuration("PROVIDER_REQUEST_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	LLM      LLMConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
	HealthTimeout   time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	LogFormat       string // json or console
	ShutdownTimeout time.Duration
}

// StorageConfig holds blob store configuration
type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UseSSL       bool
	SignedURLTTL time.Duration
}

// LLMConfig holds analysis model configuration
type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			HealthTimeout:   getEnvAsDuration("DB_HEALTH_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			LogFormat:       getEnv("LOG_FORMAT", "console"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Endpoint:     getEnv("BLOB_ENDPOINT", "localhost:9000"),
			AccessKey:    getEnv("BLOB_ACCESS_KEY", ""),
			SecretKey:    getEnv("BLOB_SECRET_KEY", ""),
			Bucket:       getEnv("BLOB_BUCKET", "receipts"),
			UseSSL:       getEnvAsBool("BLOB_USE_SSL", false),
			SignedURLTTL: getEnvAsDuration("BLOB_SIGNED_URL_TTL", time.Hour),
		},
		LLM: LLMConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return &AppError{Code: CodeValidation, Message: "DB_URL is required"}
	}
	if c.Storage.Endpoint == "" {
		return &AppError{Code: CodeValidation, Message: "BLOB_ENDPOINT is required"}
	}
	if c.Storage.Bucket == "" {
		return &AppError{Code: CodeValidation, Message: "BLOB_BUCKET is required"}
	}
	if c.LLM.APIKey == "" {
		return &AppError{Code: CodeValidation, Message: "GEMINI_API_KEY is required"}
	}
	if c.Server.HTTPAddr == "" {
		return &AppError{Code: CodeValidation, Message: "HTTP_ADDR is required"}
	}
	return nil
}

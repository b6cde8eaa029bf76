package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Media     MediaConfig
	StrokeAPI StrokeAPIConfig
	Capture   CaptureConfig
	Sessions  SessionConfig
	OTEL      OTELConfig
	Env       string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MediaConfig holds staged-media storage configuration
type MediaConfig struct {
	Backend        string // "local" or "minio"
	LocalDir       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// StrokeAPIConfig holds prediction API client configuration
type StrokeAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CaptureConfig holds capture workflow configuration
type CaptureConfig struct {
	Provider        string // "staged" or "mock"
	FaceDuration    time.Duration
	MaxCaptureRetry int
	StagedMaxAge    time.Duration
}

// SessionConfig holds in-memory session registry configuration
type SessionConfig struct {
	MaxSessions int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "stroke_screening"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Media: MediaConfig{
			Backend:        getEnv("MEDIA_BACKEND", "local"),
			LocalDir:       getEnv("MEDIA_LOCAL_DIR", "/var/lib/strokescreening/media"),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "screening-media"),
			MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		StrokeAPI: StrokeAPIConfig{
			BaseURL: getEnv("STROKE_API_URL", "http://localhost:9090"),
			Timeout: getEnvAsDuration("STROKE_API_TIMEOUT", 30*time.Second),
		},
		Capture: CaptureConfig{
			Provider:        getEnv("CAPTURE_PROVIDER", "staged"),
			FaceDuration:    getEnvAsDuration("CAPTURE_FACE_DURATION", 5*time.Second),
			MaxCaptureRetry: getEnvAsInt("CAPTURE_MAX_RETRIES", 3),
			StagedMaxAge:    getEnvAsDuration("CAPTURE_STAGED_MAX_AGE", 10*time.Minute),
		},
		Sessions: SessionConfig{
			MaxSessions: getEnvAsInt("SESSION_MAX_ACTIVE", 1024),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "stroke-screening"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

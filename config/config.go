package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Recipe write limits, per user per hour
	RecipeCreateLimit int
	RecipeUpdateLimit int

	// JWT configuration
	JWTSecret string

	// Image storage
	S3BucketName string
	AWSRegion    string

	// Shopping list rendering
	PDFFontPath string
}

// UsesRedis reports whether a Redis endpoint was configured.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// UsesS3 reports whether image uploads should go to S3.
func (c *Config) UsesS3() bool {
	return c.S3BucketName != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadShared reads the settings that are never secret
func loadShared(cfg *Config, defaults bool) error {
	def := func(v string) string {
		if defaults {
			return v
		}
		return ""
	}

	cfg.ServerPort = getEnv("SERVER_PORT", def("8080"))
	cfg.ServerHost = getEnv("SERVER_HOST", def("0.0.0.0"))
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", def("http://localhost:3000")))
	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", def("localhost"))
	cfg.DBPort = getEnv("DB_PORT", def("5432"))
	cfg.DBUser = getEnv("DB_USER", def("foodgram"))
	cfg.DBName = getEnv("DB_NAME", def("foodgram"))
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "foodgram.db")
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", "migrations")
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "")
	cfg.PDFFontPath = getEnv("PDF_FONT_PATH", "")

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return err
	}
	if cfg.RecipeCreateLimit, err = getEnvInt("RECIPE_CREATE_LIMIT", 30); err != nil {
		return err
	}
	if cfg.RecipeUpdateLimit, err = getEnvInt("RECIPE_UPDATE_LIMIT", 60); err != nil {
		return err
	}
	return nil
}

// loadCIConfig loads configuration for CI environment using ONLY GitHub Actions secrets
func loadCIConfig(cfg *Config) error {
	if err := loadShared(cfg, false); err != nil {
		return err
	}

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}

	return nil
}

// loadDevConfig loads configuration for development environment.
// Environment variables with local defaults, overridden by any secrets present.
func loadDevConfig(cfg *Config) error {
	if err := loadShared(cfg, true); err != nil {
		return err
	}

	cfg.DBPassword = getEnv("DB_PASSWORD", "foodgram")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")

	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("jwt_secret"); v != "" {
		cfg.JWTSecret = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}

	if cfg.JWTSecret == "" && cfg.Environment == Test {
		cfg.JWTSecret = "test-secret"
	}

	return nil
}

// loadProdConfig loads configuration for production environment using ONLY Docker secrets
// for sensitive values
func loadProdConfig(cfg *Config) error {
	if err := loadShared(cfg, false); err != nil {
		return err
	}

	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")

	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

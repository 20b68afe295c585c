package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults for the numeric bounds enforced by the validation layer. They are
// configuration, not per-call constants.
const (
	DefaultCookingTimeMin = 1
	DefaultCookingTimeMax = 32000
	DefaultAmountMin      = 1
	DefaultAmountMax      = 32000
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string
	SiteURL    string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (rate limiting; optional)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Validation bounds
	CookingTimeMin int
	CookingTimeMax int
	AmountMin      int
	AmountMax      int

	// Export configuration
	LogoPath string
}

// LoadConfig creates a new Config instance with values from environment
// variables or Docker secrets, depending on the environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case Development, Test, CI:
		loadEnvConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	loadBounds(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig loads configuration from environment variables with
// development defaults.
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getenv("SERVER_PORT", "8080")
	cfg.ServerHost = getenv("SERVER_HOST", "0.0.0.0")
	cfg.SiteURL = getenv("SITE_URL", "http://localhost:8080")
	cfg.DBHost = getenv("DB_HOST", "localhost")
	cfg.DBPort = getenv("DB_PORT", "5432")
	cfg.DBUser = getenv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getenv("DB_NAME", "plateful")
	cfg.DBSSLMode = getenv("DB_SSL_MODE", "disable")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getenv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = 0
	cfg.JWTSecret = getenv("JWT_SECRET", "dev-secret")
	cfg.LogoPath = os.Getenv("EXPORT_LOGO_PATH")
}

// loadProdConfig loads configuration from Docker secrets only.
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = readSecret("server_port")
	cfg.ServerHost = readSecret("server_host")
	cfg.SiteURL = readSecret("site_url")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisDB = 0
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.LogoPath = readSecret("export_logo_path")
}

func loadBounds(cfg *Config) {
	cfg.CookingTimeMin = getenvInt("COOKING_TIME_MIN", DefaultCookingTimeMin)
	cfg.CookingTimeMax = getenvInt("COOKING_TIME_MAX", DefaultCookingTimeMax)
	cfg.AmountMin = getenvInt("INGREDIENT_AMOUNT_MIN", DefaultAmountMin)
	cfg.AmountMax = getenvInt("INGREDIENT_AMOUNT_MAX", DefaultAmountMax)
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getenvInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// readSecret reads a Docker secret from the secrets directory.
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

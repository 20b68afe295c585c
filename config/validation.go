package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig checks that required settings are present and that numeric
// bounds are sane before the server starts.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("server port must be numeric: %q", cfg.ServerPort)
	}
	if cfg.DBHost == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if IsProduction() && cfg.JWTSecret == "dev-secret" {
		return fmt.Errorf("JWT secret must be set in production")
	}

	if cfg.CookingTimeMin < 1 {
		return fmt.Errorf("cooking time minimum must be positive, got %d", cfg.CookingTimeMin)
	}
	if cfg.CookingTimeMax < cfg.CookingTimeMin {
		return fmt.Errorf("cooking time bounds inverted: [%d, %d]", cfg.CookingTimeMin, cfg.CookingTimeMax)
	}
	if cfg.AmountMin < 1 {
		return fmt.Errorf("ingredient amount minimum must be positive, got %d", cfg.AmountMin)
	}
	if cfg.AmountMax < cfg.AmountMin {
		return fmt.Errorf("ingredient amount bounds inverted: [%d, %d]", cfg.AmountMin, cfg.AmountMax)
	}

	return nil
}

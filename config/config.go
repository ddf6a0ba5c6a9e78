package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"coinfolio/internal/adapters/logger" // Import the logger package for LogLevel
)

// Catalog sources.
const (
	CatalogStatic  = "static"
	CatalogBinance = "binance"
)

// Config holds all application configuration.
type Config struct {
	// Ledger
	FeeRate       float64 // fraction of USD value charged per transaction (e.g. 0.004 for 0.40%)
	AllowOversell bool    // permit selling more than held (historical behaviour)

	// Currency catalog
	CatalogSource string // "static" or "binance"
	QuoteAsset    string // quote asset for the Binance catalog (e.g. "USDT")
	APIKey        string // optional; exchange info is a public endpoint
	SecretKey     string

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	cfg.FeeRate, err = getEnvAsFloatRequired("FEE_RATE", 0.004)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid FEE_RATE: %v", err))
	} else if cfg.FeeRate < 0 || cfg.FeeRate >= 1.0 {
		errs = append(errs, "FEE_RATE must be between 0.0 (inclusive) and 1.0 (exclusive)")
	}

	cfg.AllowOversell = getEnvAsBool("ALLOW_OVERSELL", true)

	cfg.CatalogSource = strings.ToLower(getEnv("CATALOG_SOURCE", CatalogStatic))
	if cfg.CatalogSource != CatalogStatic && cfg.CatalogSource != CatalogBinance {
		errs = append(errs, fmt.Sprintf("CATALOG_SOURCE must be %q or %q", CatalogStatic, CatalogBinance))
	}

	cfg.QuoteAsset = strings.ToUpper(getEnv("QUOTE_ASSET", "USDT"))
	if cfg.QuoteAsset == "" {
		errs = append(errs, "QUOTE_ASSET must be set")
	}

	// API keys are optional: the catalog endpoint is public.
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")

	cfg.DBPath = getEnv("DB_PATH", "./data/coinfolio.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
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

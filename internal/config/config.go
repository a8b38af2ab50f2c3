package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	Symbol         string  // instrument analyzed when no manifest is given
	TickSize       float64 // minimal price increment of the instrument
	DataFile       string  // CSV tick file; empty means fetch over HTTP
	ManifestFile   string  // optional YAML manifest of datasets
	TickAPIBaseURL string
	TickAPIKey     string
	TickCount      int // ticks requested from the HTTP source
	CDFRangeTicks  int // half-width of the reported distribution grid
	LogLevel       string
	RequestTimeout int // seconds
	EnableStore    bool
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Config{
		Symbol:         getEnvWithDefault("SYMBOL", "EUR/USD"),
		TickSize:       getEnvFloatWithDefault("TICK_SIZE", 0.0001),
		DataFile:       os.Getenv("TICK_FILE"),
		ManifestFile:   os.Getenv("DATASET_MANIFEST"),
		TickAPIBaseURL: os.Getenv("TICK_API_URL"),
		TickAPIKey:     os.Getenv("TICK_API_KEY"),
		TickCount:      getEnvIntWithDefault("TICK_COUNT", 5000),
		CDFRangeTicks:  getEnvIntWithDefault("CDF_RANGE_TICKS", 5),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		EnableStore:    getEnvBoolWithDefault("ENABLE_STORE", false),
	}

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

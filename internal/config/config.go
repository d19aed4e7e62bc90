package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// DatabaseURL selects the Postgres store backend when set; the
	// in-memory stores are used otherwise.
	DatabaseURL string
	// APIConfigPath is the model-credentials file managed by the apiconfig
	// service (api.json next to the binary by default).
	APIConfigPath string
	// DatasetDir is the root of the training-dataset export tree.
	DatasetDir string
	// GenerateTimeout bounds a single remote-model call.
	GenerateTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "dev"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		APIConfigPath:   getEnv("API_CONFIG_PATH", "api.json"),
		DatasetDir:      getEnv("DATASET_DIR", "generated-code-dataset"),
		GenerateTimeout: getDuration("GENERATE_TIMEOUT_SECONDS", 60) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultSeconds)
}

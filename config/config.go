package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present. Real deployments set variables directly,
// so a missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

func GetEnv(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return fallback
}

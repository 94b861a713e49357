package api

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	AMQPURL     string
	Environment string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() Config {
	return Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AMQPURL:     strings.TrimSpace(os.Getenv("AMQP_URL")),
		Environment: envDefault("ENVIRONMENT", "development"),
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

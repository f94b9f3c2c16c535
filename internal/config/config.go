package config

import (
	"os"
	"strings"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the server
type Config struct {
	Port          string
	DBPath        string
	LogLevel      logger.Level
	CORSOrigins   []string
	StatsCacheTTL time.Duration
}

// Load reads configuration from the environment, with a best-effort .env
// file load first. Every value has a default suitable for local development.
func Load() *Config {
	// Missing .env is fine; real deployments set env vars directly
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
		CORSOrigins:   splitList(getEnv("CORS_ORIGIN", "http://localhost:5173,http://localhost:3000")),
		StatsCacheTTL: getDuration("STATS_CACHE_TTL", 5*time.Minute),
	}
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLogLevel(value string) logger.Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return logger.DebugLevel
	case "INFO":
		return logger.InfoLevel
	case "WARN":
		return logger.WarnLevel
	case "ERROR":
		return logger.ErrorLevel
	case "FATAL":
		return logger.FatalLevel
	default:
		return logger.InfoLevel
	}
}

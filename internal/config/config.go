package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	APIBaseURL  string
	APIToken    string
	RedisURL    string
	CacheTTL    time.Duration
	Environment string
	Events      EventConfig
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine in production; the environment is authoritative.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8000"),
		APIToken:    getEnv("API_TOKEN", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:    getDurationEnv("CACHE_TTL_SECONDS", 300*time.Second),
		Environment: getEnv("ENVIRONMENT", "development"),
		Events: EventConfig{
			Enabled:           getBoolEnv("EVENTS_ENABLED", false),
			Publisher:         getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers:      getEnv("KAFKA_BROKERS", "localhost:9092"),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "session-events"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}

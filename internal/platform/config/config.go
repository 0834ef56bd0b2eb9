package config

import (
	"os"
	"strconv"
	"strings"
)

// Config captures process-level configuration.
type Config struct {
	Addr          string
	DatabaseDSN   string
	KafkaBrokers  []string
	KafkaClientID string
	KafkaEnabled  bool
	RedisURL      string
	// RateLimitPerMinute caps command requests per client IP. Zero disables
	// the limiter even when Redis is configured.
	RateLimitPerMinute int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil {
		rateLimit = 120
	}

	return Config{
		Addr:               getEnv("GUARDIAN_ADDR", ":8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "postgres://localhost:5432/guardian"),
		KafkaBrokers:       brokers,
		KafkaClientID:      getEnv("KAFKA_CLIENT_ID", "guardian-service"),
		KafkaEnabled:       strings.ToLower(getEnv("KAFKA_ENABLED", "true")) != "false",
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimitPerMinute: rateLimit,
	}
}

func getEnv(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

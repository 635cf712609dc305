package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AuthorityBaseURL string // Required: base URL of the account authority
	AuthorityToken   string // Optional: service token for authority requests
	JWTSecret        string // Required: HMAC secret for verifying access tokens

	RedisAddr    string        // Optional: redis address for the snapshot cache (default: localhost:6379)
	CacheTTL     time.Duration // Optional: snapshot TTL before a background refetch (default: 5m)
	DatabaseFile string        // Optional: path to SQLite journal database (default: ./mfahub.db)

	KafkaBrokers []string // Optional: brokers for the notification topic (empty disables Kafka)
	KafkaTopic   string   // Optional: notification topic (default: mfa-notifications)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		AuthorityBaseURL: os.Getenv("MFAHUB_AUTHORITY_BASE_URL"),
		AuthorityToken:   os.Getenv("MFAHUB_AUTHORITY_TOKEN"), // Optional
		JWTSecret:        os.Getenv("MFAHUB_JWT_SECRET"),

		RedisAddr:    getEnvOrDefault("MFAHUB_REDIS_ADDR", "localhost:6379"),
		CacheTTL:     getEnvDurationOrDefault("MFAHUB_CACHE_TTL", 5*time.Minute),
		DatabaseFile: getEnvOrDefault("MFAHUB_DATABASE_FILE", "mfahub.db"),

		KafkaTopic: getEnvOrDefault("MFAHUB_KAFKA_TOPIC", "mfa-notifications"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Comma-separated broker list; empty means log-only notifications
	if brokers := os.Getenv("MFAHUB_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers     string
	OrderEventsTopic string

	// API Configuration
	APIPort string
	APIHost string

	// Shopify
	ShopDomain    string
	AdminToken    string
	WebhookSecret string

	// Public base URL used as the webhook callback address
	AppURL string

	// Sync pacing and retry policy
	SyncRecordDelay time.Duration
	SyncPageDelay   time.Duration
	SyncMaxRetries  int
	SyncBackoffBase time.Duration

	// Notification fan-out
	WSPort string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "sqlite://ordersync.db"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order-events"),
		APIPort:          getEnv("API_PORT", "8080"),
		APIHost:          getEnv("API_HOST", "0.0.0.0"),
		ShopDomain:       getEnv("SHOPIFY_SHOP_DOMAIN", ""),
		AdminToken:       getEnv("SHOPIFY_ADMIN_TOKEN", ""),
		WebhookSecret:    getEnv("SHOPIFY_WEBHOOK_SECRET", ""),
		AppURL:           getEnv("APP_URL", "http://localhost:8080"),
		SyncRecordDelay:  getEnvAsDuration("SYNC_RECORD_DELAY", 250*time.Millisecond),
		SyncPageDelay:    getEnvAsDuration("SYNC_PAGE_DELAY", time.Second),
		SyncMaxRetries:   getEnvAsInt("SYNC_MAX_RETRIES", 5),
		SyncBackoffBase:  getEnvAsDuration("SYNC_BACKOFF_BASE", time.Second),
		WSPort:           getEnv("WS_PORT", "4000"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

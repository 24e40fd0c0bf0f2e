package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки notification-worker
type Config struct {
	MongoDB      MongoDBConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	SMTP         SMTPConfig
	Notification NotificationConfig
	Cron         CronConfig
	HealthAddr   string // Адрес HTTP сервера healthcheck и метрик
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig - Redis хранит id обработанных событий
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	DedupTTL time.Duration // Сколько помнить обработанное событие
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type NotificationConfig struct {
	FrontendURL       string // Ссылки на заказ в письмах
	AdminEmail        string // Получатель отчета об остатках; пусто - отчет не отправляется
	LowStockThreshold int
}

// CronConfig - расписания в формате с секундами: "0 0 * * * *"
type CronConfig struct {
	PurgeResetTokens string
	LowStockReport   string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	dedupTTL, err := time.ParseDuration(getEnv("REDIS_DEDUP_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DEDUP_TTL: %w", err)
	}

	cfg := &Config{
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database: getEnv("MONGODB_DATABASE", "shopit"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 1), // Отдельная БД, кэш витрины в 0
			DedupTTL: dedupTTL,
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "shop_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "notification-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", "localhost"),
			Port:      getEnvInt("SMTP_PORT", 1025),
			Username:  getEnv("SMTP_EMAIL", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromName:  getEnv("SMTP_FROM_NAME", "ShopIT"),
			FromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@shopit.com"),
		},
		Notification: NotificationConfig{
			FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
			AdminEmail:        getEnv("ADMIN_EMAIL", ""),
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
		},
		Cron: CronConfig{
			PurgeResetTokens: getEnv("CRON_PURGE_RESET_TOKENS", "0 0 * * * *"),
			LowStockReport:   getEnv("CRON_LOW_STOCK_REPORT", "0 0 9 * * *"),
		},
		HealthAddr: getEnv("HEALTH_ADDR", ":8080"),
	}

	if cfg.Notification.LowStockThreshold < 0 {
		return nil, fmt.Errorf("invalid LOW_STOCK_THRESHOLD: %d", cfg.Notification.LowStockThreshold)
	}

	return cfg, nil
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки storefront-service
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Stripe     StripeConfig
	Cloudinary CloudinaryConfig
	SMTP       SMTPConfig
	Catalog    CatalogConfig
}

type ServerConfig struct {
	Host        string // Адрес хоста (по умолчанию 0.0.0.0)
	Port        string // Порт сервера (по умолчанию 4000)
	FrontendURL string // Используется в ссылке сброса пароля и для CORS
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB (для транзакций нужен replica set)
	Database string
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	ProductTTL time.Duration // Время жизни карточки товара в кэше
}

type KafkaConfig struct {
	Brokers []string
	Topic   string // Топик для ORDER_CREATED, ORDER_STATUS_CHANGED, USER_REGISTERED
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CookieConfig struct {
	ExpiresDays int
	Secure      bool
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	APIURL         string // Переопределение адреса API (stripe-mock, тесты)
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type CatalogConfig struct {
	ProductsPerPage int
	ResetTokenTTL   time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	jwtExpiration, err := getEnvDuration("JWT_EXPIRES_TIME", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	productTTL, err := getEnvDuration("REDIS_PRODUCT_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	resetTTL, err := getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnv("SERVER_PORT", "4000"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database: getEnv("MONGODB_DATABASE", "shopit"),
		},
		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			ProductTTL: productTTL,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "shop_events"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			Expiration: jwtExpiration,
		},
		Cookie: CookieConfig{
			ExpiresDays: getEnvInt("COOKIE_EXPIRES_DAYS", 7),
			Secure:      getEnv("NODE_ENV", "DEVELOPMENT") == "PRODUCTION",
		},
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			PublishableKey: getEnv("STRIPE_API_KEY", ""),
			APIURL:         getEnv("STRIPE_API_URL", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", "localhost"),
			Port:      getEnvInt("SMTP_PORT", 1025),
			Username:  getEnv("SMTP_EMAIL", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromName:  getEnv("SMTP_FROM_NAME", "ShopIT"),
			FromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@shopit.com"),
		},
		Catalog: CatalogConfig{
			ProductsPerPage: getEnvInt("PRODUCTS_PER_PAGE", 4),
			ResetTokenTTL:   resetTTL,
		},
	}

	if cfg.Catalog.ProductsPerPage <= 0 {
		return nil, fmt.Errorf("invalid PRODUCTS_PER_PAGE: %d", cfg.Catalog.ProductsPerPage)
	}

	return cfg, nil
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// MaxAge - время жизни cookie с токеном
func (c *CookieConfig) MaxAge() time.Duration {
	return time.Duration(c.ExpiresDays) * 24 * time.Hour
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

// getEnvDuration понимает формат time.ParseDuration и суффикс "d" (7d)
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	if n := len(value); n > 1 && value[n-1] == 'd' {
		if days, err := strconv.Atoi(value[:n-1]); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

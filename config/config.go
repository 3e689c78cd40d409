package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fender-store/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port        string
	Env         string
	JWT         JWT
	DB          DB
	Session     Session
	Redis       Redis
	Kafka       Kafka
	Minio       Minio
	StockPolicy string
	Cleanup     Cleanup
}

type JWT struct {
	Secret    string
	Issuer    string
	AccessExp time.Duration
}

type DB struct {
	database.Config
}

type Session struct {
	Secret string
	MaxAge time.Duration
	Secure bool
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Brokers     []string
	TopicOrders string
}

type Minio struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Cleanup struct {
	Enabled  bool
	Interval time.Duration
	MaxAge   time.Duration
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port: getEnv("APP_PORT", log),
		Env:  getEnvDefault("ENV", "production"),
		JWT: JWT{
			Secret:    getEnv("JWT_SECRET", log),
			Issuer:    getEnvDefault("JWT_ISSUER", "fender-store"),
			AccessExp: parseDurationWithDays(getEnvDefault("ACCESS_EXP", "1d")),
		},
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Session: Session{
			Secret: getEnv("SESSION_SECRET", log),
			MaxAge: parseDurationWithDays(getEnvDefault("SESSION_MAX_AGE", "14d")),
			Secure: getEnvDefault("SESSION_SECURE", "false") == "true",
		},
		Redis: Redis{
			Enabled:  getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvDefault("REDIS_PASSWORD", ""),
			DB:       atoiDefault(getEnvDefault("REDIS_DB", "0"), 0),
		},
		Kafka: Kafka{
			Brokers:     splitAndTrim(getEnvDefault("KAFKA_BROKERS", "")),
			TopicOrders: getEnvDefault("KAFKA_TOPIC_ORDERS", "orders.placed"),
		},
		Minio: Minio{
			Enabled:   getEnvDefault("MINIO_ENABLED", "false") == "true",
			Endpoint:  getEnvDefault("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnvDefault("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnvDefault("MINIO_SECRET_KEY", ""),
			Bucket:    getEnvDefault("MINIO_BUCKET", "media"),
			UseSSL:    getEnvDefault("MINIO_USE_SSL", "false") == "true",
		},
		StockPolicy: getEnvDefault("STOCK_POLICY", "reject"),
		Cleanup: Cleanup{
			Enabled:  getEnvDefault("CART_CLEANUP_ENABLED", "false") == "true",
			Interval: parseDurationWithDays(getEnvDefault("CART_CLEANUP_INTERVAL", "1h")),
			MaxAge:   parseDurationWithDays(getEnvDefault("CART_MAX_AGE", "30d")),
		},
	}

	switch cfg.StockPolicy {
	case "reject", "backorder":
	default:
		log.Error("Недопустимое значение STOCK_POLICY", zap.String("value", cfg.StockPolicy))
		panic("invalid STOCK_POLICY: " + cfg.StockPolicy)
	}
	if cfg.JWT.AccessExp <= 0 {
		log.Error("Некорректное значение ACCESS_EXP")
		panic("invalid ACCESS_EXP")
	}
	return cfg
}

func (c *Config) IsDev() bool { return c.Env == "development" }

func LoadDB(log *zap.Logger) *database.Config {
	return &database.Config{
		Host:     getEnv("DB_HOST", log),
		Port:     getEnv("DB_PORT", log),
		User:     getEnv("DB_USER", log),
		Password: getEnv("DB_PASSWORD", log),
		Name:     getEnv("DB_NAME", log),
		SSLMode:  getEnv("DB_SSLMODE", log),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0
		}
		return time.Duration(days) * 24 * time.Hour
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}

func LoadCleanup() Cleanup {
	return Cleanup{
		Enabled:  true,
		Interval: parseDurationWithDays(getEnvDefault("CART_CLEANUP_INTERVAL", "1h")),
		MaxAge:   parseDurationWithDays(getEnvDefault("CART_MAX_AGE", "30d")),
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const EnvProduction = "production"

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	Payment  PaymentConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type AppConfig struct {
	Port string
	Env  string
}

func (c AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type SessionConfig struct {
	SecretKey     string
	Store         string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type AdminConfig struct {
	Password       string
	PasswordHashes []string
}

type PaymentConfig struct {
	StripeSecretKey string
	SuccessURL      string
	CancelURL       string
	Currency        string
	ShippingCost    decimal.Decimal
}

type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads an optional .env file at path and then the process environment.
func Load(path string) (*Config, error) {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.Env = getEnv("APP_ENV", "development")

	cfg.Database.URL = getEnv("DATABASE_URL", "sqlite://data.db")

	maxConns, err := getInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Database.MaxConns = int32(maxConns)
	cfg.Database.MinConns = int32(minConns)
	if cfg.Database.MaxConnLifetime, err = getDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}

	cfg.Session.SecretKey = getEnv("SECRET_KEY", "dev-secret")
	cfg.Session.Store = getEnv("SESSION_STORE", "cookie")
	if cfg.Session.TTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	cfg.Session.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Session.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.Session.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", "admin123")
	cfg.Admin.PasswordHashes = splitList(os.Getenv("ADMIN_PASSWORD_HASHES"))

	cfg.Payment.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Payment.SuccessURL = getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:8080/success?session_id={CHECKOUT_SESSION_ID}")
	cfg.Payment.CancelURL = getEnv("CHECKOUT_CANCEL_URL", "http://localhost:8080/cancel")
	cfg.Payment.Currency = strings.ToLower(getEnv("CURRENCY", "usd"))
	cfg.Payment.ShippingCost, err = decimal.NewFromString(getEnv("SHIPPING_COST", "5.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_COST: %w", err)
	}

	cfg.Kafka.Brokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.OrdersTopic = getEnv("KAFKA_ORDERS_TOPIC", "orders.recorded")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.File = os.Getenv("LOG_FILE")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.IsProduction() && c.Session.SecretKey == "dev-secret" {
		return errors.New("SECRET_KEY is required in production")
	}
	if c.Session.Store != "cookie" && c.Session.Store != "redis" {
		return fmt.Errorf("SESSION_STORE must be cookie or redis, got %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Admin.Password == "" && len(c.Admin.PasswordHashes) == 0 {
		return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASHES is required")
	}
	if c.Payment.ShippingCost.IsNegative() {
		return errors.New("SHIPPING_COST cannot be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

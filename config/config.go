package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	// DBUrl selects the Postgres stores. Empty means in-memory stores.
	DBUrl string

	JWTSecret string
	JWTExpiry time.Duration

	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	Email     EmailConfig
	AWS       AWSConfig
	Documents DocumentsConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	// RabbitMQURL enables the registration.confirmed queue. Empty means confirmations are handled in-process.
	RabbitMQURL string
}

// EmailConfig selects and configures the outgoing mailer.
type EmailConfig struct {
	Provider           string
	FromAddress        string
	FromName           string
	InsecureSkipVerify bool
}

// AWSConfig holds credentials shared by SES and S3.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// DocumentsConfig configures supporting-document storage. Empty Bucket means in-memory storage.
type DocumentsConfig struct {
	Bucket   string
	Endpoint string
}

// RedisConfig configures the Redis client used for rate limiting. Empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig configures the token bucket applied to registration requests.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist and we rely on system environment variables.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env file not loaded", "err", err)
		}
	}

	var errs []string
	getDuration := func(key string, def time.Duration) time.Duration {
		s := os.Getenv(key)
		if s == "" {
			return def
		}
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, s))
			return def
		}
		return d
	}
	getInt := func(key string, def int) int {
		s := os.Getenv(key)
		if s == "" {
			return def
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, s))
			return def
		}
		return n
	}

	cfg := &Config{
		Environment:        env,
		Port:               getEnv("PORT", "8080"),
		DBUrl:              os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiry:          getDuration("JWT_EXPIRY", 24*time.Hour),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 5*time.Second),
		Email: EmailConfig{
			Provider:           getEnv("EMAIL_PROVIDER", "noop"),
			FromAddress:        os.Getenv("EMAIL_FROM_ADDRESS"),
			FromName:           getEnv("EMAIL_FROM_NAME", "EduEvent Hub"),
			InsecureSkipVerify: os.Getenv("EMAIL_INSECURE_SKIP_VERIFY") == "true",
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		Documents: DocumentsConfig{
			Bucket:   os.Getenv("DOCUMENTS_BUCKET"),
			Endpoint: os.Getenv("DOCUMENTS_ENDPOINT"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			Capacity:       getInt("RATE_LIMIT_CAPACITY", 10),
			RefillTokens:   getInt("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: getDuration("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
			TTL:            getDuration("RATE_LIMIT_TTL", 10*time.Minute),
			Prefix:         getEnv("RATE_LIMIT_PREFIX", "eduevent:rl"),
		},
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == "" {
		if env == "production" {
			errs = append(errs, "JWT_SECRET is required in production")
		} else {
			cfg.JWTSecret = "dev-secret-change-me"
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

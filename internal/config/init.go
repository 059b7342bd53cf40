package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port string
	Env  string

	Database DatabaseConfig
	Redis    RedisConfig

	JWTSecret      []byte
	AccessTokenTTL time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type DatabaseConfig struct {
	Driver       string // mysql, postgres or sqlite
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadDotenv copies .env from the working directory into the process
// environment without overriding variables that are already set. It reports
// whether a .env file was read.
func LoadDotenv() bool {
	return godotenv.Load() == nil
}

// Load builds the Config from the process environment. Call LoadDotenv first
// so values from .env are visible.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("APP_PORT", "8000"),
		Env:  getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "mysql"),
			DSN:          os.Getenv("DB_DSN"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:    time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("DB_DSN is not set"))
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is not set"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("rate limit settings must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		Logger.Warn("invalid integer in environment, using default",
			zap.String("key", key), zap.String("value", v), zap.Int("default", fallback))
		return fallback
	}
	return n
}

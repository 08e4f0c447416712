package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string
	Env  string

	RedisHost          string
	RedisPort          string
	RedisPass          string
	RedisDB            int
	RedisMaxRetries    int
	RedisRetryInterval time.Duration

	ServiceBaseURL string
	WebhookTimeout time.Duration

	JWTSecret     string
	FailedLogPath string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		RedisHost:          getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisMaxRetries:    getEnvInt("REDIS_MAX_RETRIES", 5),
		RedisRetryInterval: time.Duration(getEnvInt("REDIS_RETRY_INTERVAL_MS", 2000)) * time.Millisecond,
		ServiceBaseURL:     os.Getenv("SERVICE_BASE_URL"),
		WebhookTimeout:     time.Duration(getEnvInt("WEBHOOK_TIMEOUT_MS", 2000)) * time.Millisecond,
		JWTSecret:          os.Getenv("JWT_SECRET"),
		FailedLogPath:      getEnv("FAILED_LOG_PATH", "FailedThirdPartyAPICalls.jsonl"),
	}

	if cfg.RedisMaxRetries < 1 {
		return nil, fmt.Errorf("REDIS_MAX_RETRIES must be at least 1")
	}

	return cfg, nil
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

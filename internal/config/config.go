package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	CatalogPath  string
	RedisURL     string
	SessionTTL   time.Duration
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = durationEnv("READ_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = durationEnv("WRITE_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}

	limit := getEnvOrDefault("BODY_LIMIT_BYTES", strconv.Itoa(4*1024*1024))
	cfg.BodyLimit, err = strconv.Atoi(limit)
	if err != nil || cfg.BodyLimit <= 0 {
		return Config{}, fmt.Errorf("BODY_LIMIT_BYTES must be a positive integer, got %q", limit)
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a duration like 30m or 2h, got %q", key, raw)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

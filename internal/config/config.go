package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config — конфигурация сервера и воркера из переменных окружения
type Config struct {
	Port string

	DatabaseURL string
	RedisURL    string
	IndexPath   string

	JWTSecret string

	PostsPerPage int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AdminEmail   string

	// Пауза между постами при экспорте, в миллисекундах
	ExportDelayMS int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		IndexPath:     getEnv("INDEX_PATH", "microblog.bleve"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		PostsPerPage:  getEnvAsInt("POSTS_PER_PAGE", 10),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvAsInt("SMTP_PORT", 25),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", "microblog@localhost"),
		ExportDelayMS: getEnvAsInt("EXPORT_DELAY_MS", 0),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

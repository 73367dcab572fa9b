package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string

	// JWT configuration
	JWTSecret string

	// SMTP relay
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Photo storage (S3)
	PhotoBucket string
	PhotoRegion string

	// Public user IDs always added as observation recipients
	AutoRecipientIDs []string

	// Photo retention window for the cleanup job
	RetentionDays int

	// Shared secret guarding the cleanup route
	CronSecret string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	}

	AppConfig = Config{
		ServerPort:       getEnv("PORT", "8080"),
		Environment:      getEnv("ENV", "development"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "observation_tracker"),
		RedisAddress:     getEnv("REDIS_ADDRESS", "localhost:6379"),
		JWTSecret:        getEnv("JWT_SECRET", "observation-tracker-secret"),
		SMTPHost:         getEnv("EMAIL_SERVER_HOST", "localhost"),
		SMTPPort:         getEnvInt("EMAIL_SERVER_PORT", 587),
		SMTPUser:         getEnv("EMAIL_SERVER_USER", ""),
		SMTPPassword:     getEnv("EMAIL_SERVER_PASSWORD", ""),
		MailFrom:         getEnv("EMAIL_FROM", "no-reply@observation-tracker.local"),
		PhotoBucket:      getEnv("PHOTO_BUCKET", "observation-photos"),
		PhotoRegion:      getEnv("PHOTO_REGION", "us-east-1"),
		AutoRecipientIDs: splitIDs(getEnv("AUTO_RECIPIENT_IDS", "")),
		RetentionDays:    getEnvInt("IMAGE_RETENTION_DAYS", 1825),
		CronSecret:       getEnv("CRON_SECRET", "observation-cron-secret"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer env value, using default")
		return defaultValue
	}
	return n
}

// splitIDs parses a comma-separated list of public user IDs, uppercased
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	LogFormat     string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// AdminJWTSecret signs admin tokens for the doctor-management routes.
	AdminJWTSecret string

	// CORSAllowedOrigins is a comma-separated origin list for kiosk frontends.
	CORSAllowedOrigins string

	// BookingHorizonDays is how far ahead a patient may book.
	BookingHorizonDays int

	// SameDayLeadTime is the minimum buffer between now and a same-day slot.
	SameDayLeadTime time.Duration

	// SlotInterval is the appointment grid width.
	SlotInterval time.Duration

	// SessionTTL bounds how long a kiosk vitals session survives in Redis.
	SessionTTL time.Duration

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		BookingHorizonDays: getEnvAsInt("BOOKING_HORIZON_DAYS", 30),
		SameDayLeadTime:    getEnvAsDuration("SAME_DAY_LEAD_TIME", time.Hour),
		SlotInterval:       getEnvAsDuration("SLOT_INTERVAL", 30*time.Minute),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Package config handles configuration loading for the LMS API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the LMS API.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	// JWTSecret signs access tokens. Absence is a startup fault, not a
	// recoverable runtime error.
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	JWTAccessExpiry time.Duration

	LoginMaxFailures int
	LoginWindow      time.Duration

	Port        string
	Environment string
	SwaggerHost string
}

// Load reads configuration from environment variables. It panics when a
// required variable is missing.
func Load() *Config {
	return &Config{
		DBHost:     getEnvRequired("DB_HOST"),
		DBPort:     getEnvRequired("DB_PORT"),
		DBUser:     getEnvRequired("DB_USER"),
		DBPassword: getEnvRequired("DB_PASSWORD"),
		DBName:     getEnvRequired("DB_NAME"),

		RedisHost:     getEnvRequired("REDIS_HOST"),
		RedisPort:     getEnvRequired("REDIS_PORT"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:       getEnvRequired("JWT_SECRET"),
		JWTIssuer:       getEnvRequired("JWT_ISSUER"),
		JWTAudience:     getEnvRequired("JWT_AUDIENCE"),
		JWTAccessExpiry: time.Duration(getEnvInt("JWT_ACCESS_EXPIRY_MINUTES", 15)) * time.Minute,

		LoginMaxFailures: getEnvInt("LOGIN_MAX_FAILURES", 10),
		LoginWindow:      time.Duration(getEnvInt("LOGIN_WINDOW_MINUTES", 15)) * time.Minute,

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		SwaggerHost: getEnv("SWAGGER_HOST", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

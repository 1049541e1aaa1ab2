package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Env           string
	Port          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	JWTExpiresIn  time.Duration
	UploadDir     string
	MemcachedHost string
	CacheTTL      time.Duration
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("SERVER_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "rentals_user"),
		DBPassword:    getEnv("DB_PASSWORD", "rentals_password"),
		DBName:        getEnv("DB_NAME", "rentals_db"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-change-in-production"),
		JWTExpiresIn:  getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MemcachedHost: getEnv("MEMCACHED_HOST", ""),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),
	}
}

// DSN builds the MySQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv returns an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration environment variable, falling back on error.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a libpq-compatible connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Minio holds object storage settings for event images.
type Minio struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Mailtrap holds settings for the confirmation email sender. Empty APIKey
// disables sending.
type Mailtrap struct {
	APIKey    string
	URL       string
	FromEmail string
	FromName  string
}

// Config is the full application configuration.
type Config struct {
	ServerPort    string
	CORSOrigin    string
	JWTSecret     string
	JWTExpiration time.Duration
	Database      Database
	Minio         Minio
	Mailtrap      Mailtrap
	SentryDSN     string
	SentryEnv     string
}

// Load reads configuration from the environment, falling back to local
// development defaults. A .env file is loaded first when one is found.
func Load() *Config {
	loadDotenv()

	return &Config{
		ServerPort:    getEnv("PORT", "8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration: getDuration("JWT_EXPIRATION", 30*24*time.Hour),
		Database: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "utsav"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Minio: Minio{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "event-images"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		Mailtrap: Mailtrap{
			APIKey:    os.Getenv("MAILTRAP_API_KEY"),
			URL:       getEnv("MAILTRAP_API_URL", "https://send.api.mailtrap.io/api/send"),
			FromEmail: getEnv("MAIL_FROM_EMAIL", "noreply@utsav.events"),
			FromName:  getEnv("MAIL_FROM_NAME", "Utsav Events"),
		},
		SentryDSN: os.Getenv("SENTRY_DSN"),
		SentryEnv: getEnv("SENTRY_ENVIRONMENT", "development"),
	}
}

// loadDotenv probes the working directory and its parents for a .env file
// so the server can be started from cmd/ or the repo root.
func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env"), filepath.Join("..", "..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			log.Println("loaded env file:", p)
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default", key, v)
		return fallback
	}
	return d
}

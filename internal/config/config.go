package config

import (
	"os"
	"strconv"
	"time"
)

// Config is built once at startup and handed to the components that need it.
// Business logic never reads the process environment directly.
type Config struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	// 32-byte key for the URL slug codec (AES-256-CTR).
	EncryptionKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	EmailName    string

	FinanceEmail string
	AppURL       string
	UploadDir    string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "sinfoni"),
		DBPort:      getEnv("DB_PORT", "5432"),

		JWTSecret:  getEnv("JWT_SECRET", "default_secret_key"),
		JWTIssuer:  getEnv("JWT_ISSUER", "sinfoni-api"),
		SessionTTL: 8 * time.Hour,

		EncryptionKey: getEnv("ENCRYPTION_KEY", "vOVH6sdmpNWjRRIqCc7rdxs01lwHzfr3"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASS"),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@sinfoni.com"),
		EmailName:    getEnv("EMAIL_FROM_NAME", "SINFONI Notification"),

		FinanceEmail: getEnv("FINANCE_EMAIL", "finance@sinfoni.com"),
		AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		UploadDir:    getEnv("UPLOAD_DIR", "public/uploads/receipts"),
	}
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

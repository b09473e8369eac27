package config

import (
	"fmt"
	"os"
)

// Config collects every environment-derived setting at startup. It is built
// once in main and handed to constructors explicitly; request handlers never
// read process state themselves.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      []byte
	AllowedOrigins []string

	// SecureCookies switches auth cookies to Secure + SameSite=None for
	// cross-origin production deployments.
	SecureCookies bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// Load reads configuration from the environment with development defaults.
func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     []byte(jwtSecret()),
		SecureCookies: os.Getenv("GIN_MODE") == "release",
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      587,
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		AllowedOrigins: []string{
			getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
			"http://127.0.0.1:5173",
		},
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "fintrack")
	dbSslMode := getEnv("DB_SSLMODE", "disable")

	cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSslMode)

	return cfg
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return secret
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

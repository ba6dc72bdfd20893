package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting the service reads from the environment.
type Config struct {
	Port            string
	DatabaseDSN     string
	RedisAddr       string
	JWTSecret       string
	AdminKey        string
	FrontendBaseURL string

	// Path to a Google service account file for the Vision client.
	// Empty means application default credentials.
	GoogleCredentialsFile string

	// Hard budget for a single OCR pass.
	OCRTimeout time.Duration
}

// Load reads .env (if present) and assembles the runtime configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}

	return &Config{
		Port:                  GetEnv("PORT", "8080"),
		DatabaseDSN:           GetEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=campusverify port=5432 sslmode=disable"),
		RedisAddr:             GetEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:             GetEnv("JWT_SECRET", ""),
		AdminKey:              GetEnv("ADMIN_KEY", ""),
		FrontendBaseURL:       GetEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		GoogleCredentialsFile: GetEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		OCRTimeout:            time.Duration(GetIntEnv("OCR_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

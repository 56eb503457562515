package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment. A .env file
// in the working directory is honored but optional.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	KafkaBrokers string // empty disables event publishing

	UploadDir string
	ServerURL string

	LogLevel string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "3000"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "restaurant"),
		DBPassword:   getEnv("DB_PASSWORD", "restaurant"),
		DBName:       getEnv("DB_NAME", "restaurant"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		UploadDir:    getEnv("UPLOAD_DIR", "public/uploads"),
		ServerURL:    getEnv("SERVER_URL", "http://localhost:3000"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

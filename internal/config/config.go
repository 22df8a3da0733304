package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs, loaded once at startup and
// passed into construction. Nothing reads the environment after Load.
type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	TokenTTL        time.Duration
	MapboxAPIKey    string
	FrontendOrigins []string
	APIRateLimit    int
	Port            string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	return Config{
		MongoURI:        getEnvOrDefault("DATABASE_URL", ""),
		DBName:          getEnvOrDefault("DATABASE_NAME", "placeshare"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:        getDurationEnv("JWT_EXPIRES_IN", 60, time.Minute),
		MapboxAPIKey:    getEnvOrDefault("MAPBOX_API_KEY", ""),
		FrontendOrigins: splitList(getEnvOrDefault("FRONTEND_SERVER_URLS", "http://localhost:3000")),
		APIRateLimit:    getIntEnv("API_LIMIT", 100),
		Port:            getEnvOrDefault("PORT", "3000"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

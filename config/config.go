package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	CSVPath string

	APIBaseURL         string
	HTTPTimeoutSeconds int
}

// LoadConfig reads the environment. Missing variables fall back to the
// defaults of a local single-machine setup.
func LoadConfig() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		SQLitePath: getenv("SQLITE_PATH", "colegios.db"),

		CSVPath: getenv("CSV_PATH", "central.csv"),

		APIBaseURL:         getenv("API_BASE_URL", "http://localhost:8080"),
		HTTPTimeoutSeconds: getenvInt("HTTP_TIMEOUT_SECONDS", 5),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

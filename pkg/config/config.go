package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	SQLitePath       string
	DBConnectRetries int

	FeeGraceDays int
	FeePerDay    int

	BreakerMaxFailures int
	BreakerTimeout     time.Duration

	SeedDemoData bool
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8060"),

		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DBHost:           getEnv("DB_HOST", "postgres"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "program"),
		DBPassword:       getEnv("DB_PASSWORD", "test"),
		DBName:           getEnv("DB_NAME", "library"),
		SQLitePath:       getEnv("SQLITE_PATH", "library.db"),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 10),

		FeeGraceDays: getEnvNonNegativeInt("FEE_GRACE_DAYS", 10),
		FeePerDay:    getEnvNonNegativeInt("FEE_PER_DAY", 1),

		BreakerMaxFailures: getEnvInt("BREAKER_MAX_FAILURES", 5),
		BreakerTimeout:     getEnvDuration("BREAKER_TIMEOUT", 10*time.Second),

		SeedDemoData: getEnvBool("SEED_DEMO_DATA", false),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvNonNegativeInt falls back to defaultValue for negative values too.
func getEnvNonNegativeInt(key string, defaultValue int) int {
	if n := getEnvInt(key, defaultValue); n >= 0 {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

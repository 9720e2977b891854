package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SinkConfig points at a Grafana-style push endpoint for logs or metrics.
type SinkConfig struct {
	URL    string
	UserID string
	APIKey string
	Source string
}

// FactoryConfig points at the pizza factory, the order verification
// collaborator.
type FactoryConfig struct {
	URL    string
	APIKey string
}

type Config struct {
	Port        string
	Version     string
	DatabaseURL string // postgres DSN; empty selects the sqlite file
	SQLitePath  string
	JWTSecret   []byte
	ListPerPage int

	Factory         FactoryConfig
	Logging         SinkConfig
	Metrics         SinkConfig
	MetricsInterval time.Duration
}

// App holds the active configuration. The defaults here are enough for
// local runs and tests; Load overrides them from the environment.
var App = &Config{
	Port:            "8080",
	Version:         "1.0.0",
	SQLitePath:      "pizza.db",
	JWTSecret:       []byte("jwt_pizza_super_secret_2024"),
	ListPerPage:     10,
	Logging:         SinkConfig{Source: "jwt-pizza-service"},
	Metrics:         SinkConfig{Source: "jwt-pizza-service"},
	MetricsInterval: 10 * time.Second,
}

// Load reads .env (if present) and the process environment into App.
func Load() *Config {
	_ = godotenv.Load()

	App = &Config{
		Port:        getEnv("PORT", "8080"),
		Version:     getEnv("VERSION", "1.0.0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "pizza.db"),
		JWTSecret:   []byte(getEnv("JWT_SECRET", "jwt_pizza_super_secret_2024")),
		ListPerPage: getEnvInt("LIST_PER_PAGE", 10),
		Factory: FactoryConfig{
			URL:    getEnv("FACTORY_URL", "https://pizza-factory.cs329.click"),
			APIKey: os.Getenv("FACTORY_API_KEY"),
		},
		Logging: SinkConfig{
			URL:    os.Getenv("LOGGING_URL"),
			UserID: os.Getenv("LOGGING_USER_ID"),
			APIKey: os.Getenv("LOGGING_API_KEY"),
			Source: getEnv("LOGGING_SOURCE", "jwt-pizza-service"),
		},
		Metrics: SinkConfig{
			URL:    os.Getenv("METRICS_URL"),
			UserID: os.Getenv("METRICS_USER_ID"),
			APIKey: os.Getenv("METRICS_API_KEY"),
			Source: getEnv("METRICS_SOURCE", "jwt-pizza-service"),
		},
		MetricsInterval: time.Duration(getEnvInt("METRICS_INTERVAL_SECONDS", 10)) * time.Second,
	}
	return App
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

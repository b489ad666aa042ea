package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Target database
	DBKind     string
	DBHost     string
	DBPort     int
	DBUsername string
	DBPassword string
	DBName     string
	DBTLS      bool

	// Verification
	FixturePath    string
	ConnectBudget  time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Fixture provisioning (optional)
	TopologyProfile string

	// Reporting (optional)
	NatsURL       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Watch mode (0 = one-shot)
	WatchInterval time.Duration
	HealthPort    string
}

func Load() (*Config, error) {
	// Try multiple .env locations
	envPaths := []string{
		".env",
		"../.env",
		"/app/.env", // Docker
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded config from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Printf("No .env file found, using environment variables")
	}

	config := &Config{
		DBKind:     getEnvOrDefault("DB_KIND", "mongodb"),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBUsername: os.Getenv("DB_USERNAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBTLS:      getEnvOrDefault("DB_TLS", "false") == "true",

		FixturePath:     os.Getenv("FIXTURE_PATH"),
		TopologyProfile: os.Getenv("TOPOLOGY_PROFILE"),

		NatsURL:       os.Getenv("NATS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		HealthPort: getEnvOrDefault("HEALTH_PORT", "8080"),
	}

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "27017"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	config.DBPort = port

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.RedisDB = redisDB

	config.ConnectBudget, err = parseDuration("CONNECT_BUDGET", "30s")
	if err != nil {
		return nil, err
	}
	config.InitialBackoff, err = parseDuration("INITIAL_BACKOFF", "100ms")
	if err != nil {
		return nil, err
	}
	config.MaxBackoff, err = parseDuration("MAX_BACKOFF", "8s")
	if err != nil {
		return nil, err
	}
	config.WatchInterval, err = parseDuration("WATCH_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.DBKind == "" {
		return fmt.Errorf("DB_KIND is required")
	}
	if c.DBHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.DBPort < 1 || c.DBPort > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535")
	}

	if c.ConnectBudget < time.Second {
		return fmt.Errorf("CONNECT_BUDGET must be at least 1 second")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("INITIAL_BACKOFF must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("MAX_BACKOFF must be at least INITIAL_BACKOFF")
	}

	if c.WatchInterval != 0 && c.WatchInterval < time.Second {
		return fmt.Errorf("WATCH_INTERVAL must be at least 1 second")
	}

	return nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Helper function for defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Package config reads storefront settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/fjod/storefront/internal/repository"
	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
)

type Config struct {
	Backend    string
	SQLitePath string
	Postgres   repository.Credentials
	MongoURI   string
	MongoDB    string
	RedisAddr  string
	RedisPass  string
	// RedisCache puts a read-through redis cache in front of a sql or mongo backend.
	RedisCache bool

	CatalogPath  string
	CheckoutPath string
	SitePath     string

	AdminPIN     string
	AdminPINHash string

	LogLevel       string
	Locale         string
	StorageTimeout time.Duration
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. Missing .env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("STORAGE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_TIMEOUT: %w", err)
	}
	redisCache, err := strconv.ParseBool(getEnv("REDIS_CACHE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE: %w", err)
	}

	cfg := &Config{
		Backend:    getEnv("STOREFRONT_BACKEND", BackendSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "./storefront.db"),
		Postgres: repository.Credentials{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "storefront"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "storefront"),
		},
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      getEnv("REDIS_PASSWORD", ""),
		RedisCache:     redisCache,
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		CheckoutPath:   getEnv("CHECKOUT_PATH", ""),
		SitePath:       getEnv("SITE_PATH", ""),
		AdminPIN:       getEnv("ADMIN_PIN", ""),
		AdminPINHash:   getEnv("ADMIN_PIN_HASH", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Locale:         getEnv("LOCALE", "es-ES"),
		StorageTimeout: timeout,
	}

	switch cfg.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendMongo, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown STOREFRONT_BACKEND %q", cfg.Backend)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

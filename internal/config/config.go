package config

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

const (
	// DriverPostgres selects the relational store.
	DriverPostgres = "postgres"
	// DriverMemory selects the throwaway in-memory store.
	DriverMemory = "memory"
)

// insecureJWTSecret is the development fallback. Any deployment must
// override it via JWT_SECRET.
const insecureJWTSecret = "nexus-forum-dev-secret"

type Config struct {
	Port        string
	StoreDriver string

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	JWT struct {
		Secret          string
		InsecureDefault bool
	}

	Log struct {
		Level  string
		Format string
	}

	// ExposeErrors controls whether raw store error messages appear in
	// HTTP response bodies. Off unless EXPOSE_ERRORS is truthy.
	ExposeErrors bool
}

func New() *Config {
	cfg := &Config{}

	cfg.Port = getEnvDefault("PORT", "8080")
	cfg.StoreDriver = getEnvDefault("STORE_DRIVER", DriverPostgres)

	cfg.DB.DSN = os.Getenv("DATABASE_URL")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
		cfg.DB.User = getEnvDefault("DB_USER", "postgres")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "postgres")
		cfg.DB.Name = getEnvDefault("DB_NAME", "nexus_forum")
		cfg.DB.SSLMode = getEnvDefault("DB_SSLMODE", "disable")

		cfg.DB.DSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
		)
	}

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = insecureJWTSecret
		cfg.JWT.InsecureDefault = true
	}

	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "console")

	cfg.ExposeErrors = isTruthy(os.Getenv("EXPOSE_ERRORS"))

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

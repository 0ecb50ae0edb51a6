package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	Port            string
	AllowOrigins    string
	JWTSecret       string
	DefaultCurrency string
	ReqTimeoutSec   int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		AllowOrigins:    getenv("ALLOW_ORIGINS", "*"),
		JWTSecret:       getenv("JWT_SECRET", ""),
		DefaultCurrency: getenv("DEFAULT_CURRENCY", "₹"),
		ReqTimeoutSec:   atoi("REQUEST_TIMEOUT_SECONDS", 30),
		DBHost:          getenv("DB_HOST", "localhost"),
		DBPort:          getenv("DB_PORT", "5432"),
		DBUser:          getenv("DB_USER", "postgres"),
		DBPassword:      getenv("DB_PASSWORD", ""),
		DBName:          getenv("DB_NAME", "ledger"),
		DBSSLMode:       getenv("DB_SSLMODE", "disable"),
	}
}

// Validate catches misconfiguration at boot instead of on the first request.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.DBName == "" {
		return errors.New("DB_NAME must not be empty")
	}
	if c.ReqTimeoutSec <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

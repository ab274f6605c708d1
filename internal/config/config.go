package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string

	// DefaultAccountAmount is the balance every newly opened account
	// starts with.
	DefaultAccountAmount int64

	// TransferCommissionRate is the fraction of a cross-user transfer
	// that is burned. Must be in [0, 1).
	TransferCommissionRate decimal.Decimal
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "account_ledger"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}

	defaultAmount, err := strconv.ParseInt(getEnv("DEFAULT_ACCOUNT_AMOUNT", "100"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_ACCOUNT_AMOUNT: %w", err)
	}
	if defaultAmount < 0 {
		return nil, fmt.Errorf("DEFAULT_ACCOUNT_AMOUNT must not be negative, got %d", defaultAmount)
	}
	cfg.DefaultAccountAmount = defaultAmount

	rate, err := decimal.NewFromString(getEnv("TRANSFER_COMMISSION_RATE", "0.0025"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_COMMISSION_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("TRANSFER_COMMISSION_RATE must be in [0, 1), got %s", rate)
	}
	cfg.TransferCommissionRate = rate

	return cfg, nil
}

// GetDBConnectionString builds the lib/pq connection string.
func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

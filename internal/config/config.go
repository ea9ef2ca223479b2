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
	App       AppConfig
	Data      DataConfig
	Database  DatabaseConfig
	Dashboard DashboardConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// DataConfig selects where dashboard records come from. "http" pulls the
// collections from the mill console API, "postgres" reads them straight
// from the database.
type DataConfig struct {
	Source  string
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type DashboardConfig struct {
	DiscrepancyEpsilon float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// Data source configuration
	dataTimeout, err := time.ParseDuration(getEnv("DATA_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_API_TIMEOUT: %w", err)
	}

	config.Data = DataConfig{
		Source:  getEnv("DATA_SOURCE", "http"),
		BaseURL: getEnv("DATA_API_BASE_URL", ""),
		Timeout: dataTimeout,
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "ma3sra"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Dashboard configuration
	epsilon, err := strconv.ParseFloat(getEnv("DISCREPANCY_EPSILON", "1e-9"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DISCREPANCY_EPSILON: %w", err)
	}

	config.Dashboard = DashboardConfig{
		DiscrepancyEpsilon: epsilon,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "http":
		if c.Data.BaseURL == "" {
			return fmt.Errorf("DATA_API_BASE_URL is required when DATA_SOURCE=http")
		}
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q, expected http or postgres", c.Data.Source)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// It is built once in main and injected everywhere; nothing reads the
// environment after Load returns.
type Config struct {
	AppMode    string
	Port       string
	Debug      bool
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Pagination PaginationConfig
	Storage    StorageConfig
	Coins      CoinsConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CORSConfig holds the allowed origins for browsers
type CORSConfig struct {
	AllowedOrigins string
}

// PaginationConfig caps list endpoints
type PaginationConfig struct {
	DefaultPerPage int
	MaxPerPage     int
}

// StorageConfig holds S3-compatible object storage settings (profile images)
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	PublicURL string
}

// CoinsConfig holds coin economy settings
type CoinsConfig struct {
	WelcomeBonus int
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))
	defaultPerPage, _ := strconv.Atoi(getEnv("PAGINATION_DEFAULT", "20"))
	maxPerPage, _ := strconv.Atoi(getEnv("PAGINATION_MAX", "100"))
	welcomeBonus, _ := strconv.Atoi(getEnv("WELCOME_BONUS_COINS", "50"))
	useSSL, _ := strconv.ParseBool(getEnv("STORAGE_USE_SSL", "false"))
	debug, _ := strconv.ParseBool(getEnv("APP_DEBUG", "false"))

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "8080"),
		Debug:   debug || appMode == "dev",
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASS", ""),
			DBName:   getEnv("DB_NAME", "skillswap"),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "change_me"),
			RefreshSecret:    getEnv("JWT_REFRESH_SECRET", "change_me_too"),
			AccessTokenMins:  accessMins,
			RefreshTokenDays: refreshDays,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		},
		Pagination: PaginationConfig{
			DefaultPerPage: defaultPerPage,
			MaxPerPage:     maxPerPage,
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "skillswap-uploads"),
			Region:    getEnv("STORAGE_REGION", ""),
			UseSSL:    useSSL,
			PublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
		},
		Coins: CoinsConfig{
			WelcomeBonus: welcomeBonus,
		},
	}

	log.Printf("Configuration loaded [MODE: %s]", appMode)
	return config, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.CORS.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://app.skillswap.example"
	}
	return c.CORS.AllowedOrigins
}

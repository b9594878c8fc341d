package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Server configuration
	Server ServerConfig

	// Security configuration
	Security SecurityConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig

	// Media (uploaded pictures) configuration
	Media MediaConfig

	// Mail configuration
	Mail MailConfig

	// Artificial latency for incremental-loading endpoints
	Latency LatencyConfig

	Debug bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string // Full PostgreSQL URL
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds security-related settings
type SecurityConfig struct {
	JWTSecret    string
	APIKey       string
	APIRateLimit float64 // failed-auth attempts per second per client
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// MediaConfig locates uploaded files on disk and on the web.
type MediaConfig struct {
	Root string
	URL  string
}

// MailConfig holds SMTP settings used for comment notifications.
type MailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
}

// LatencyConfig holds artificial delays.
type LatencyConfig struct {
	SearchPage time.Duration
	Partial    time.Duration
}

// LoadEnvFiles reads local env files when they exist. Missing files are ignored.
func LoadEnvFiles() {
	_ = godotenv.Load("config/local.env")
	_ = godotenv.Load()
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if err := cfg.loadSecurity(); err != nil {
		return nil, fmt.Errorf("load security config: %w", err)
	}

	cfg.loadCORS()
	cfg.loadLogging()
	cfg.loadMedia()

	if err := cfg.loadMail(); err != nil {
		return nil, fmt.Errorf("load mail config: %w", err)
	}

	if err := cfg.loadLatency(); err != nil {
		return nil, fmt.Errorf("load latency config: %w", err)
	}

	cfg.Debug = parseBool(os.Getenv("DEBUG"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadMedia reads only the media settings. The maintenance command uses it so
// that it can report a missing MEDIA_ROOT without requiring the server settings.
func LoadMedia() MediaConfig {
	c := &Config{}
	c.loadMedia()
	c.Media.Root = strings.TrimSpace(os.Getenv("MEDIA_ROOT"))
	return c.Media
}

// LoadDatabase reads only the database settings for commands that do not
// serve HTTP.
func LoadDatabase() (DatabaseConfig, error) {
	c := &Config{}
	if err := c.loadDatabase(); err != nil {
		return DatabaseConfig{}, fmt.Errorf("load database config: %w", err)
	}
	if c.Database.URL == "" {
		return DatabaseConfig{}, fmt.Errorf("DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
	}
	return c.Database, nil
}

func (c *Config) loadDatabase() error {
	// Try to load DATABASE_URL first
	c.Database.URL = os.Getenv("DATABASE_URL")

	// If not present, construct from individual parameters
	if c.Database.URL == "" {
		c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
		c.Database.User = os.Getenv("DB_USER")
		c.Database.Password = os.Getenv("DB_PASSWORD")
		c.Database.Name = os.Getenv("DB_NAME")
		c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

		port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		c.Database.Port = port

		if c.Database.Host != "" && c.Database.User != "" && c.Database.Name != "" {
			c.Database.URL = fmt.Sprintf(
				"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
				c.Database.User,
				c.Database.Password,
				c.Database.Host,
				c.Database.Port,
				c.Database.Name,
				c.Database.SSLMode,
			)
		}
	}

	return nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	return nil
}

func (c *Config) loadSecurity() error {
	c.Security.JWTSecret = os.Getenv("JWT_SECRET")
	c.Security.APIKey = os.Getenv("API_KEY")

	limit, err := strconv.ParseFloat(getEnvOrDefault("API_RATE_LIMIT", "1"), 64)
	if err != nil {
		return fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
	}
	c.Security.APIRateLimit = limit
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv != "" {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		c.CORS.AllowedOrigins = origins
	} else {
		// Default for local development
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8000",
		}
	}
}

func (c *Config) loadLogging() {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
}

func (c *Config) loadMedia() {
	c.Media.Root = getEnvOrDefault("MEDIA_ROOT", "media")
	url := getEnvOrDefault("MEDIA_URL", "/media/")
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	c.Media.URL = url
}

func (c *Config) loadMail() error {
	c.Mail.Host = os.Getenv("EMAIL_HOST")
	port, err := strconv.Atoi(getEnvOrDefault("EMAIL_PORT", "25"))
	if err != nil {
		return fmt.Errorf("invalid EMAIL_PORT: %w", err)
	}
	c.Mail.Port = port
	c.Mail.User = os.Getenv("EMAIL_HOST_USER")
	c.Mail.Password = os.Getenv("EMAIL_HOST_PASSWORD")
	c.Mail.From = getEnvOrDefault("EMAIL_FROM", "admin@example.com")
	c.Mail.AdminEmail = getEnvOrDefault("ADMIN_EMAIL", "admin@example.com")
	return nil
}

func (c *Config) loadLatency() error {
	search, err := time.ParseDuration(getEnvOrDefault("SEARCH_PAGE_DELAY", "0s"))
	if err != nil {
		return fmt.Errorf("invalid SEARCH_PAGE_DELAY: %w", err)
	}
	partial, err := time.ParseDuration(getEnvOrDefault("PARTIAL_DELAY", "0s"))
	if err != nil {
		return fmt.Errorf("invalid PARTIAL_DELAY: %w", err)
	}
	c.Latency.SearchPage = search
	c.Latency.Partial = partial
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	if c.Database.URL == "" {
		errors = append(errors, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
	}

	if c.Security.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}
	if c.Security.APIKey == "" {
		errors = append(errors, "API_KEY is required")
	}
	if c.Security.APIRateLimit <= 0 {
		errors = append(errors, "API_RATE_LIMIT must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if c.Media.Root == "" {
		errors = append(errors, "MEDIA_ROOT must not be empty")
	}
	if !strings.HasPrefix(c.Media.URL, "/") {
		errors = append(errors, "MEDIA_URL must start with /")
	}

	if c.Latency.SearchPage < 0 || c.Latency.Partial < 0 {
		errors = append(errors, "latency settings must not be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// MailEnabled reports whether an SMTP host has been configured.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != ""
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

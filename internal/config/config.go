package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Application defaults
const (
	DefaultPort           = "8080"
	DefaultDriver         = "postgres"
	DefaultSessionCookie  = "sb-access-token"
	DefaultAdminPageSize  = 15
	DefaultPublicPageSize = 12
)

// Config holds all server configuration
type Config struct {
	Port           string
	DatabaseURL    string
	DatabaseDriver string
	AutoMigrate    bool

	JWTSecret     string
	JWTIssuer     string
	SessionCookie string

	IdentityURL        string
	IdentityAnonKey    string
	IdentityServiceKey string

	DisableTypesense bool
	TypesenseHost    string
	TypesenseAPIKey  string

	CORSOrigins    string
	LogLevel       string
	LogFormat      string
	AdminPageSize  int
	PublicPageSize int
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", DefaultPort),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabaseDriver:     getEnv("DATABASE_DRIVER", DefaultDriver),
		AutoMigrate:        getEnv("AUTO_MIGRATE", "false") == "true",
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", ""),
		SessionCookie:      getEnv("SESSION_COOKIE", DefaultSessionCookie),
		IdentityURL:        getEnv("IDENTITY_URL", ""),
		IdentityAnonKey:    getEnv("IDENTITY_ANON_KEY", ""),
		IdentityServiceKey: getEnv("IDENTITY_SERVICE_KEY", ""),
		DisableTypesense:   getEnv("DISABLE_TYPESENSE", "false") == "true",
		TypesenseHost:      getEnv("TYPESENSE_HOST", ""),
		TypesenseAPIKey:    getEnv("TYPESENSE_API_KEY", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", "*"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		AdminPageSize:      getEnvInt("ADMIN_PAGE_SIZE", DefaultAdminPageSize),
		PublicPageSize:     getEnvInt("PUBLIC_PAGE_SIZE", DefaultPublicPageSize),
	}
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL cannot be empty")
	}
	if c.DatabaseDriver == "" {
		errors = append(errors, "DATABASE_DRIVER cannot be empty")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET cannot be empty")
	}
	if c.SessionCookie == "" {
		errors = append(errors, "SESSION_COOKIE cannot be empty")
	}

	if c.IdentityURL == "" {
		errors = append(errors, "IDENTITY_URL cannot be empty")
	} else if _, err := url.ParseRequestURI(c.IdentityURL); err != nil {
		errors = append(errors, fmt.Sprintf("IDENTITY_URL is not a valid URL: %s", c.IdentityURL))
	}
	if c.IdentityAnonKey == "" {
		errors = append(errors, "IDENTITY_ANON_KEY cannot be empty")
	}

	if !c.DisableTypesense {
		if c.TypesenseHost == "" {
			errors = append(errors, "TYPESENSE_HOST is required (or set DISABLE_TYPESENSE=true)")
		}
		if c.TypesenseAPIKey == "" {
			errors = append(errors, "TYPESENSE_API_KEY is required (or set DISABLE_TYPESENSE=true)")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.AdminPageSize < 1 {
		errors = append(errors, fmt.Sprintf("ADMIN_PAGE_SIZE must be a positive number, got: %d", c.AdminPageSize))
	}
	if c.PublicPageSize < 1 {
		errors = append(errors, fmt.Sprintf("PUBLIC_PAGE_SIZE must be a positive number, got: %d", c.PublicPageSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt returns -1 for values that are set but not numbers so Validate can report them.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

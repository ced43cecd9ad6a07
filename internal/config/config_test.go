package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:            "8080",
		DatabaseURL:     "postgres://localhost/lyrics",
		DatabaseDriver:  "postgres",
		JWTSecret:       "secret",
		SessionCookie:   DefaultSessionCookie,
		IdentityURL:     "https://auth.example.com",
		IdentityAnonKey: "anon",
		TypesenseHost:   "http://localhost:8108",
		TypesenseAPIKey: "xyz",
		LogLevel:        "info",
		LogFormat:       "text",
		AdminPageSize:   15,
		PublicPageSize:  12,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lyrics")

	cfg := Load()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDriver, cfg.DatabaseDriver)
	assert.Equal(t, DefaultSessionCookie, cfg.SessionCookie)
	assert.Equal(t, DefaultAdminPageSize, cfg.AdminPageSize)
	assert.Equal(t, DefaultPublicPageSize, cfg.PublicPageSize)
	assert.False(t, cfg.AutoMigrate)
	assert.False(t, cfg.DisableTypesense)
	assert.Equal(t, "postgres://localhost/lyrics", cfg.DatabaseURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("DISABLE_TYPESENSE", "true")
	t.Setenv("ADMIN_PAGE_SIZE", "25")
	t.Setenv("PUBLIC_PAGE_SIZE", "abc")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
	assert.True(t, cfg.DisableTypesense)
	assert.Equal(t, 25, cfg.AdminPageSize)
	assert.Equal(t, -1, cfg.PublicPageSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT must be a valid number"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "PORT must be between 1 and 65535"},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL cannot be empty"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET cannot be empty"},
		{"bad identity url", func(c *Config) { c.IdentityURL = "not a url" }, "IDENTITY_URL is not a valid URL"},
		{"typesense required", func(c *Config) { c.TypesenseHost = "" }, "TYPESENSE_HOST is required"},
		{"typesense disabled", func(c *Config) {
			c.DisableTypesense = true
			c.TypesenseHost = ""
			c.TypesenseAPIKey = ""
		}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "LOG_LEVEL must be one of"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT must be one of"},
		{"bad page size", func(c *Config) { c.PublicPageSize = -1 }, "PUBLIC_PAGE_SIZE must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	cfg.JWTSecret = ""
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_AUTO_MIGRATE",
		"REDIS_ADDR", "LOG_LEVEL", "LOG_PRETTY", "CORS_ALLOWED_ORIGINS", "SERVER_READ_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Contains(t, cfg.Database.URL, "/ledger")
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.URL)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.Pretty)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8000"},
			Database: DatabaseConfig{URL: "postgres://x", MaxOpenConns: 10, MaxIdleConns: 2},
			Logger:   LoggerConfig{Level: "info"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"empty database url", func(c *Config) { c.Database.URL = "" }},
		{"no open conns", func(c *Config) { c.Database.MaxOpenConns = 0 }},
		{"idle above open", func(c *Config) { c.Database.MaxIdleConns = 11 }},
		{"negative redis db", func(c *Config) { c.Redis.DB = -1 }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOGBOOK_CONFIG_PATH", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t,
		"host=localhost user=postgres password=password dbname=logbook port=5432 sslmode=disable TimeZone=UTC",
		cfg.Database.DSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOGBOOK_DATABASE_HOST", "db.internal")
	t.Setenv("LOGBOOK_LOG_LEVEL", "debug")
	t.Setenv("LOGBOOK_AUTH_ENABLED", "true")
	t.Setenv("LOGBOOK_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("LOGBOOK_AUTH_ENABLED", "true")
	_, err := Load()
	assert.ErrorContains(t, err, "jwt_secret")
}

func TestValidateLog(t *testing.T) {
	assert.NoError(t, ValidateLog(LogConfig{Level: "WARN", Format: "json"}))
	assert.Error(t, ValidateLog(LogConfig{Level: "trace", Format: "json"}))
	assert.Error(t, ValidateLog(LogConfig{Level: "info", Format: "xml"}))
}

func TestValidatePort(t *testing.T) {
	t.Setenv("LOGBOOK_DATABASE_PORT", "not-a-port")
	_, err := Load()
	assert.ErrorContains(t, err, "database port")
}

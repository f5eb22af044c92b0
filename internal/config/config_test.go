package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "monitoripu", cfg.Database.Name)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Jobs.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("JOBS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Jobs.Enabled)
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "jwt-secret")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("CACHE_BACKEND", "memcached")
	_, err = Load()
	assert.ErrorContains(t, err, "CACHE_BACKEND")
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=require", db.DSN())
}

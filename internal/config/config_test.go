package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	applog "kemstore/internal/log"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "KV_BACKEND", "DB_DSN", "REDIS_URL", "LOG_FILE",
		"SEED_ON_START", "BCRYPT_COST", "ORDER_HISTORY_LIMIT", "CSRF_ENABLED", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.KVBackend)
	assert.Equal(t, "kemstore.db", cfg.DBDSN)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 50, cfg.OrderHistoryLimit)
	assert.True(t, cfg.CSRFEnabled)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KV_BACKEND", " Redis ")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("ORDER_HISTORY_LIMIT", "5")
	t.Setenv("COOKIE_SECURE", "1")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.KVBackend)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, 5, cfg.OrderHistoryLimit)
	assert.True(t, cfg.CookieSecure)
}

func TestInvalidValuesFallBackAndWarn(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(nil) })

	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("CSRF_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, 1, logs.FilterMessage("config.invalid_int").Len())
	assert.Equal(t, 1, logs.FilterMessage("config.invalid_bool").Len())
}

func TestFieldsOmitSecrets(t *testing.T) {
	cfg := Config{RedisURL: "redis://:hunter2@cache:6379/0"}
	for _, f := range cfg.Fields() {
		assert.NotContains(t, f.String, "hunter2", f.Key)
	}
}

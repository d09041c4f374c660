package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	applog "kemstore/internal/log"
)

type Config struct {
	Port              string
	Env               string
	KVBackend         string // sqlite | redis
	DBDSN             string
	RedisURL          string
	LogFile           string
	SeedOnStart       bool
	BcryptCost        int
	OrderHistoryLimit int
	CSRFEnabled       bool
	CookieSecure      bool
}

func Load() Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("APP_ENV", "development"),
		KVBackend:         strings.ToLower(getEnv("KV_BACKEND", "sqlite")),
		DBDSN:             getEnv("DB_DSN", "kemstore.db"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogFile:           os.Getenv("LOG_FILE"),
		SeedOnStart:       getBool("SEED_ON_START", true),
		BcryptCost:        getInt("BCRYPT_COST", 10),
		OrderHistoryLimit: getInt("ORDER_HISTORY_LIMIT", 50),
		CSRFEnabled:       getBool("CSRF_ENABLED", true),
		CookieSecure:      getBool("COOKIE_SECURE", false),
	}
	return cfg
}

// Fields renders the config for the startup log line.
func (c Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("port", c.Port),
		zap.String("env", c.Env),
		zap.String("kv_backend", c.KVBackend),
		zap.String("db_dsn", c.DBDSN),
		zap.Bool("seed_on_start", c.SeedOnStart),
		zap.Int("order_history_limit", c.OrderHistoryLimit),
		zap.Bool("csrf", c.CSRFEnabled),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		applog.L().Warn("config.invalid_bool", zap.String("key", key), zap.String("value", v))
		return def
	}
	return b
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		applog.L().Warn("config.invalid_int", zap.String("key", key), zap.String("value", v))
		return def
	}
	return n
}

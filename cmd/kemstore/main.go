package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kemstore/internal/config"
	"kemstore/internal/http/handlers"
	"kemstore/internal/kv"
	applog "kemstore/internal/log"
)

func main() {
	cfg := config.Load()

	logger, err := applog.Init(cfg.Env, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("kv.open", zap.String("backend", cfg.KVBackend), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	storage := kv.NewStorage(store, logger)
	deps := handlers.NewDeps(storage, cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = prepareStore(ctx, cfg, deps)
	cancel()
	if err != nil {
		// the store keeps serving; missing keys read as defaults
		logger.Error("store.prepare.fail", zap.Error(err))
	}

	app := handlers.NewApp(cfg, deps)
	logger.Info("server.start", cfg.Fields()...)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server.listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("server.shutdown")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("server.shutdown.fail", zap.Error(err))
	}
}

// prepareStore seeds the demo data when enabled. Either way the user list
// is rewritten in the current schema so legacy records are upgraded once
// instead of on every read.
func prepareStore(ctx context.Context, cfg config.Config, deps *handlers.Deps) error {
	if cfg.SeedOnStart {
		return deps.Seeder.Initialize(ctx)
	}
	return deps.Users.Migrate(ctx)
}

func openStore(cfg config.Config) (kv.Store, error) {
	switch cfg.KVBackend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s, err := kv.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite", "":
		s, err := kv.OpenSQLite(cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
}

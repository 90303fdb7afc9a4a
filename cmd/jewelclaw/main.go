package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"jewelclaw/internal/bot"
	"jewelclaw/internal/config"
	"jewelclaw/internal/pricing"
	"jewelclaw/internal/server"
	"jewelclaw/internal/storage"
	"jewelclaw/pkg/logger"
	"jewelclaw/pkg/redis"
	"jewelclaw/pkg/whatsapp"
)

// ENTRY POINT

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
	defer redisClient.Close()

	pgStorage, err := storage.NewPostgresStorage(ctx, cfg, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if err := storage.RunMigrations(ctx, pgStorage.DB(), zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	engine := pricing.NewEngine(pgStorage, pgStorage, zapLogger, cfg.DefaultCity)
	configurator := pricing.NewConfigurator(pgStorage, zapLogger)

	waClient := whatsapp.NewClient(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioWhatsAppFrom,
		zapLogger,
	)

	jewelBot := bot.New(waClient, pgStorage, engine, configurator, zapLogger, cfg)

	srv := server.New(jewelBot, pgStorage, zapLogger, cfg.HTTPAddr)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}

	zapLogger.Info("Shutdown complete")
}

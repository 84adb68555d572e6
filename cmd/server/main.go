package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/config"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logger.Info(".env not found, using environment variables")
		}
	}

	cfg := config.LoadConfig()
	if cfg.IsProduction() {
		if prod, err := zap.NewProduction(); err == nil {
			logger = prod
		}
	}

	logger.Info("Config loaded",
		zap.String("port", cfg.ServerPort),
		zap.String("env", cfg.Env),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
		zap.Bool("gemini", cfg.GeminiAPIKey != ""),
		zap.Duration("bot_tick", cfg.BotTick),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to bootstrap server", zap.Error(err))
	}

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatal("Server stopped with error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("Server exited gracefully")
}

package main

import (
	"context"
	"fuel-stop-planner/internal/adapters/cache"
	"fuel-stop-planner/internal/config"
	"fuel-stop-planner/internal/platform/db"
	"fuel-stop-planner/internal/platform/obs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "console"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sqlDB, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer sqlDB.Close()

	logger.Info("initializing cache schema")
	if err := cache.InitSchema(ctx, sqlDB); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("schema ready")
}

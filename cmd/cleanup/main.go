package main

import (
	"context"
	"os"

	"fender-store/config"
	"fender-store/internal/cleanup"
	"fender-store/internal/repository"
	"fender-store/pkg/database"
	"fender-store/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Разовое удаление брошенных анонимных корзин старше CART_MAX_AGE.
func main() {
	_ = godotenv.Load()

	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.LoadCleanup()
	if cfg.MaxAge <= 0 {
		log.Fatal("invalid CART_MAX_AGE")
	}

	db := database.ConnectDB(config.LoadDB(log), log)
	defer database.CloseDB(db, log)

	cleanupSvc := cleanup.NewCleanupService(repository.New(db).Carts, cfg.MaxAge, log)

	log.Info("running anonymous carts cleanup", zap.Duration("max_age", cfg.MaxAge))
	n, err := cleanupSvc.CleanupAnonymousCarts(context.Background())
	if err != nil {
		log.Fatal("failed to cleanup anonymous carts", zap.Error(err))
	}

	log.Info("cleanup completed successfully", zap.Int64("deleted", n))
}

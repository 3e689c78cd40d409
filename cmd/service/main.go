package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fender-store/config"
	"fender-store/internal/cache"
	"fender-store/internal/cleanup"
	"fender-store/internal/hashing"
	"fender-store/internal/producer"
	"fender-store/internal/repository"
	"fender-store/internal/router"
	"fender-store/internal/service"
	"fender-store/internal/session"
	"fender-store/internal/storage"
	"fender-store/internal/token"
	"fender-store/pkg/database"
	"fender-store/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	// nil интерфейс выключает соответствующую возможность
	var cacheClient service.CacheClient
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		cacheClient = redisClient
		log.Info("Redis cache enabled")
	} else {
		log.Info("Redis cache disabled")
	}

	var events service.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		orderProducer := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
		defer orderProducer.Close()
		events = orderProducer
		log.Info("Kafka order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.TopicOrders))
	} else {
		log.Info("Kafka order events disabled")
	}

	var media service.MediaStore
	if cfg.Minio.Enabled {
		store, err := storage.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL, log)
		if err != nil {
			log.Fatal("failed to init minio", zap.Error(err))
		}
		media = store
		log.Info("MinIO media storage enabled", zap.String("bucket", cfg.Minio.Bucket))
	}

	hasher := hashing.NewBcrypt(0)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	authSvc := service.NewAuthService(repos.Users, repos.Orders, hasher, tokens, cacheClient, cfg.JWT.AccessExp, log)
	cartSvc := service.NewCartService(repos, log)
	checkoutSvc := service.NewCheckoutService(repos, events, service.StockPolicy(cfg.StockPolicy), log)
	catalogSvc := service.NewCatalogService(repos)
	adminSvc := service.NewAdminService(repos, hasher, media, log)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	var scheduler *cleanup.Scheduler
	if cfg.Cleanup.Enabled {
		scheduler = cleanup.NewScheduler(cleanup.NewCleanupService(repos.Carts, cfg.Cleanup.MaxAge, log), cfg.Cleanup.Interval, log)
		scheduler.Start(cleanupCtx)
	}

	r := router.Router(router.Deps{
		Auth:     authSvc,
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Admin:    adminSvc,
		Sessions: session.NewStore(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, log)

	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")

	// Останавливаем планировщик
	if scheduler != nil {
		scheduler.Stop()
	}
	cleanupCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
		return
	}
	log.Info("HTTP server stopped gracefully")
}

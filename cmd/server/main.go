package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/backend"
	"storefront/internal/broker"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/state"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront", zap.String("env", cfg.Server.Env))

	tp, err := util.InitTracer("storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ProductCacheTTL, cfg.Redis.GuestCartTTL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicStorefront)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicStorefront))

	eventPublisher := broker.NewEventPublisher(producer)
	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	productService := service.NewProductService(backendClient, redisClient, eventPublisher)
	cartService := service.NewCartService(backendClient, productService, eventPublisher, redisClient)
	orderService := service.NewOrderService(backendClient, db)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	registry := state.NewRegistry(cfg.Session.IdleTTL)
	go registry.Run(workerCtx, cfg.Session.SweepEvery)

	catalogConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog, cfg.Kafka.ConsumerGroup)
	catalogWorker := worker.NewCatalogWorker(catalogConsumer, redisClient)
	go func() {
		if err := catalogWorker.Start(workerCtx); err != nil {
			logger.Error("Catalog worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		productService,
		cartService,
		orderService,
		registry,
		api.NewSessionStore(cfg.Session.Secret, cfg.Session.CookieSecure),
		api.NewTokenVerifier(cfg.Auth.JWTSecret),
		api.Options{
			AssetBaseURL:  cfg.Backend.AssetBaseURL,
			SessionCookie: cfg.Session.CookieName,
			AuthCookie:    cfg.Auth.CookieName,
		},
	)
	handler.AddReadinessCheck("postgres", db.Ping)
	handler.AddReadinessCheck("redis", redisClient.Ping)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := catalogWorker.Stop(); err != nil {
		logger.Error("Error stopping catalog worker", zap.Error(err))
	}

	logger.Info("Server exited")
}

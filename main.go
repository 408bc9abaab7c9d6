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

	"github.com/gin-gonic/gin"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/config"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/database"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/di"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/logger"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/metrics"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/middleware"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/pricing"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/redisclient"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/service"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting DFW booking service...")

	ctx := context.Background()

	// Initialize tracing and metrics
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Fatal(fmt.Sprintf("Telemetry init failed: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()
	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Metrics init failed, continuing without: %v", err))
	}

	// Initialize database connection. In development the service can run
	// on in-memory stores when no database is reachable.
	var db *database.PostgresDB
	db, err = database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		if !cfg.IsDevelopment() {
			appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
		}
		appLog.Warn(fmt.Sprintf("Database connection failed, using in-memory stores: %v", err))
		db = nil
	} else {
		defer db.Close()
		appLog.Info("Database connected")
	}

	// Initialize Redis connection if enabled
	var redisClient *redisclient.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisclient.NewClient(ctx, &redisclient.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			MaxRetries:   3,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	// Initialize Kafka event publisher, falling back to no-op
	var eventPublisher service.EventPublisher
	if cfg.Kafka.Enabled {
		eventPublisher, err = service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
			eventPublisher = service.NewNoOpEventPublisher()
		} else {
			appLog.Info("Kafka event publisher connected")
		}
	} else {
		eventPublisher = service.NewNoOpEventPublisher()
	}
	defer eventPublisher.Close()

	// Initialize repositories
	var bookingRepo repository.BookingRepository
	var inventoryRepo repository.InventoryRepository
	if db != nil {
		bookingRepo = repository.NewPostgresBookingRepository(db.Pool())
		inventoryRepo = repository.NewPostgresInventoryRepository(db.Pool())
	} else {
		bookingRepo = repository.NewMemoryBookingRepository()
		inventoryRepo = repository.NewMemoryInventoryRepository()
	}

	var releaseQueue repository.ReleaseQueue
	if redisClient != nil {
		releaseQueue = repository.NewRedisReleaseQueue(redisClient)
	} else {
		releaseQueue = repository.NewMemoryReleaseQueue()
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		BookingRepo:    bookingRepo,
		InventoryRepo:  inventoryRepo,
		ReleaseQueue:   releaseQueue,
		EventPublisher: eventPublisher,
		Rates: pricing.RateTable{
			Hourly:     cfg.Pricing.HourlyRate,
			Daily:      cfg.Pricing.DailyRate,
			Weekly:     cfg.Pricing.WeeklyRate,
			Monthly:    cfg.Pricing.MonthlyRate,
			TaxRate:    cfg.Pricing.TaxRate,
			ServiceFee: cfg.Pricing.ServiceFee,
		},
		Tolerance: cfg.Booking.PaymentTolerance,
	})

	// Run the release worker in-process
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go func() {
		if err := container.ReleaseWorker.Start(workerCtx); err != nil && err != context.Canceled {
			appLog.Error(fmt.Sprintf("Release worker stopped: %v", err))
		}
	}()

	// Setup Gin
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWT.Secret))
	container.BookingHandler.RegisterRoutes(v1)
	container.InventoryHandler.RegisterRoutes(v1)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Booking service listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

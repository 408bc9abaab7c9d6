package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/config"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/database"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/logger"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/redisclient"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/worker"
)

// The release worker drains the pending inventory release queue. It is
// normally run in-process by the API server, this binary exists for
// deployments that want the drain loop isolated from request serving.
// It requires both PostgreSQL and Redis since the queue only matters
// when state is shared across processes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: "release-worker",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting release worker...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      10,
		MinConns:      2,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	redisClient, err := redisclient.NewClient(ctx, &redisclient.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		MaxRetries:   3,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	w := worker.NewReleaseWorker(
		repository.NewRedisReleaseQueue(redisClient),
		repository.NewPostgresInventoryRepository(db.Pool()),
		repository.NewPostgresBookingRepository(db.Pool()),
		nil,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLog.Info("Shutting down release worker...")
		cancel()
	}()

	if err := w.Start(ctx); err != nil && err != context.Canceled {
		appLog.Fatal(fmt.Sprintf("Release worker error: %v", err))
	}

	appLog.Info("Release worker exited")
}

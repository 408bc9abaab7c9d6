package di

import (
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/database"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/handler"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/pricing"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/redisclient"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/repository"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/service"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/worker"
)

// Container holds all dependencies for the booking service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redisclient.Client

	// Repositories
	BookingRepo   repository.BookingRepository
	InventoryRepo repository.InventoryRepository
	ReleaseQueue  repository.ReleaseQueue

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	ReservationService service.ReservationService
	BookingService     service.BookingService
	InventoryService   service.InventoryService

	// Workers
	ReleaseWorker *worker.ReleaseWorker

	// Handlers
	HealthHandler    *handler.HealthHandler
	BookingHandler   *handler.BookingHandler
	InventoryHandler *handler.InventoryHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redisclient.Client
	BookingRepo    repository.BookingRepository
	InventoryRepo  repository.InventoryRepository
	ReleaseQueue   repository.ReleaseQueue
	EventPublisher service.EventPublisher
	Rates          pricing.RateTable
	Tolerance      float64
	WorkerConfig   *worker.ReleaseWorkerConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		BookingRepo:    cfg.BookingRepo,
		InventoryRepo:  cfg.InventoryRepo,
		ReleaseQueue:   cfg.ReleaseQueue,
		EventPublisher: cfg.EventPublisher,
	}

	// Initialize services
	c.ReservationService = service.NewReservationService(
		c.BookingRepo,
		c.InventoryRepo,
		c.ReleaseQueue,
		c.EventPublisher,
		&service.ReservationConfig{
			Rates:            cfg.Rates,
			PaymentTolerance: cfg.Tolerance,
		},
	)
	c.BookingService = service.NewBookingService(
		c.BookingRepo,
		c.InventoryRepo,
		c.ReleaseQueue,
		c.EventPublisher,
	)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo)

	// Initialize workers
	c.ReleaseWorker = worker.NewReleaseWorker(
		c.ReleaseQueue,
		c.InventoryRepo,
		c.BookingRepo,
		cfg.WorkerConfig,
	)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.BookingHandler = handler.NewBookingHandler(c.ReservationService, c.BookingService)
	c.InventoryHandler = handler.NewInventoryHandler(c.InventoryService)

	return c
}

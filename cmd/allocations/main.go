package main

import (
	allochandler "fleetalloc/internal/allocations/handler"
	allocrepo "fleetalloc/internal/allocations/repository"
	allocservice "fleetalloc/internal/allocations/service"
	allocvalidator "fleetalloc/internal/allocations/validator"
	fleetrepo "fleetalloc/internal/fleet/repository"
	"fleetalloc/pkg/app"
	"fleetalloc/pkg/config"
	"fleetalloc/pkg/kafka"
	kafka_config "fleetalloc/pkg/kafka/config"
	kafka_middleware "fleetalloc/pkg/kafka/middleware"
)

const ServiceName = "allocations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Allocations service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := initEvents(cfg)
	if producer != nil {
		defer producer.Close()
	}

	appHandler := initHandlers(cfg, producer)
	healthHandler := allochandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, appHandler, healthHandler)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, producer *kafka.Producer) *allochandler.AllocationHandler {
	allocationValidator := allocvalidator.NewAllocationValidator(cfg.Log)
	allocationRepo := allocrepo.NewMongoAllocationRepository(cfg)
	vehicleRepo := fleetrepo.NewMongoVehicleRepository(cfg)
	employeeRepo := fleetrepo.NewMongoEmployeeRepository(cfg)

	var events allocservice.EventPublisher
	if producer != nil {
		events = producer
	}

	allocationService := allocservice.NewAllocationService(
		allocationRepo,
		vehicleRepo,
		employeeRepo,
		allocationValidator,
		events,
		cfg,
	)
	availabilityService := allocservice.NewAvailabilityService(allocationRepo, vehicleRepo, cfg)
	statsService := allocservice.NewStatsService(allocationRepo, vehicleRepo, cfg)

	cfg.Log.Info("Allocation services initialized", "database", cfg.MongoDatabaseName)
	return allochandler.NewAllocationHandler(allocationService, availabilityService, statsService, cfg.Log)
}

func initEvents(cfg *config.Config) *kafka.Producer {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Allocation event publishing disabled")
		return nil
	}

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.PublishLogging(cfg.Log))

	cfg.Log.Info("Allocation event publishing enabled", "topic", cfg.EventsTopic, "dlq", cfg.EventsDLQ)
	return producer
}

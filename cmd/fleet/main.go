package main

import (
	allocrepo "fleetalloc/internal/allocations/repository"
	"fleetalloc/internal/fleet/handler"
	"fleetalloc/internal/fleet/repository"
	"fleetalloc/internal/fleet/service"
	"fleetalloc/internal/fleet/validator"
	"fleetalloc/pkg/app"
	"fleetalloc/pkg/config"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "fleet"

// fleetHandlers groups the domain handlers behind one route registrar.
type fleetHandlers struct {
	vehicles  *handler.VehicleHandler
	drivers   *handler.DriverHandler
	employees *handler.EmployeeHandler
	seed      *handler.SeedHandler
}

func (h *fleetHandlers) RegisterRoutes(router *httprouter.Router) {
	h.vehicles.RegisterRoutes(router)
	h.drivers.RegisterRoutes(router)
	h.employees.RegisterRoutes(router)
	h.seed.RegisterRoutes(router)
}

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Fleet service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	appHandler := initHandlers(cfg)
	healthHandler := handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, appHandler, healthHandler)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) *fleetHandlers {
	fleetValidator := validator.NewFleetValidator(cfg.Log)

	vehicleRepo := repository.NewMongoVehicleRepository(cfg)
	driverRepo := repository.NewMongoDriverRepository(cfg)
	employeeRepo := repository.NewMongoEmployeeRepository(cfg)
	allocationRepo := allocrepo.NewMongoAllocationRepository(cfg)

	vehicleService := service.NewVehicleService(vehicleRepo, driverRepo, fleetValidator, cfg)
	driverService := service.NewDriverService(driverRepo, fleetValidator, cfg)
	employeeService := service.NewEmployeeService(employeeRepo, fleetValidator, cfg)
	seedService := service.NewSeedService(vehicleRepo, driverRepo, employeeRepo, allocationRepo, cfg)

	cfg.Log.Info("Fleet services initialized", "database", cfg.MongoDatabaseName)

	return &fleetHandlers{
		vehicles:  handler.NewVehicleHandler(vehicleService, cfg.Log),
		drivers:   handler.NewDriverHandler(driverService, cfg.Log),
		employees: handler.NewEmployeeHandler(employeeService, cfg.Log),
		seed:      handler.NewSeedHandler(seedService, cfg.Log),
	}
}

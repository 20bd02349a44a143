package service

import (
	"context"
	"time"

	allocrepo "fleetalloc/internal/allocations/repository"
	"fleetalloc/internal/fleet/repository"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
)

// SeedSummary reports what a seed run inserted.
type SeedSummary struct {
	Employees   int `json:"employees"`
	Drivers     int `json:"drivers"`
	Vehicles    int `json:"vehicles"`
	Allocations int `json:"allocations"`
}

type SeedService interface {
	Seed(ctx context.Context) (*SeedSummary, error)
}

type seedService struct {
	vehicleRepo    repository.VehicleRepository
	driverRepo     repository.DriverRepository
	employeeRepo   repository.EmployeeRepository
	allocationRepo allocrepo.AllocationRepository
	cfg            *config.Config
}

func NewSeedService(
	vehicleRepo repository.VehicleRepository,
	driverRepo repository.DriverRepository,
	employeeRepo repository.EmployeeRepository,
	allocationRepo allocrepo.AllocationRepository,
	cfg *config.Config,
) SeedService {
	return &seedService{
		vehicleRepo:    vehicleRepo,
		driverRepo:     driverRepo,
		employeeRepo:   employeeRepo,
		allocationRepo: allocationRepo,
		cfg:            cfg,
	}
}

// Seed loads a small demo fleet for local development. It refuses to
// run against a database that already holds vehicles, so a stray call
// cannot pollute real data.
func (s *seedService) Seed(ctx context.Context) (*SeedSummary, error) {
	existing, err := s.vehicleRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to check for existing data", err)
	}
	if existing > 0 {
		return nil, apperrors.Conflict("Database already contains fleet data")
	}

	employees := []*model.Employee{
		{Name: "Dana Peretz", Department: "Engineering", Email: "dana.peretz@example.com", Active: true},
		{Name: "Yossi Mizrahi", Department: "Sales", Email: "yossi.mizrahi@example.com", Active: true},
		{Name: "Noa Shapiro", Department: "Operations", Email: "noa.shapiro@example.com", Active: true},
	}
	for _, e := range employees {
		if err := s.employeeRepo.Create(ctx, e); err != nil {
			return nil, apperrors.Internal("Failed to seed employees", err)
		}
	}

	drivers := []*model.Driver{
		{Name: "Avi Cohen", LicenseNumber: "DL-100200", ContactNumber: "+14155550101"},
		{Name: "Rina Levi", LicenseNumber: "DL-100201", ContactNumber: "+14155550102"},
	}
	for _, d := range drivers {
		if err := s.driverRepo.Create(ctx, d); err != nil {
			return nil, apperrors.Internal("Failed to seed drivers", err)
		}
	}

	vehicles := []*model.Vehicle{
		{Brand: "Toyota", Model: "Corolla", RegistrationNumber: "FL-1001", DriverID: drivers[0].ID, Active: true},
		{Brand: "Ford", Model: "Transit", RegistrationNumber: "FL-1002", DriverID: drivers[1].ID, Active: true},
		{Brand: "Tesla", Model: "Model 3", RegistrationNumber: "FL-1003", Active: true},
	}
	for _, v := range vehicles {
		if err := s.vehicleRepo.Create(ctx, v); err != nil {
			return nil, apperrors.Internal("Failed to seed vehicles", err)
		}
	}

	tomorrow := model.Day(time.Now().Add(24 * time.Hour))
	allocations := []*model.Allocation{
		{
			VehicleID:      vehicles[0].ID,
			EmployeeID:     employees[0].ID,
			AllocationDate: tomorrow,
			Purpose:        "Client site visit",
			Status:         model.AllocationActive,
		},
		{
			VehicleID:      vehicles[1].ID,
			EmployeeID:     employees[1].ID,
			AllocationDate: model.Day(tomorrow.Add(24 * time.Hour)),
			Purpose:        "Equipment delivery",
			Status:         model.AllocationActive,
		},
	}
	for _, a := range allocations {
		if err := s.allocationRepo.Insert(ctx, a); err != nil {
			return nil, apperrors.Internal("Failed to seed allocations", err)
		}
	}

	summary := &SeedSummary{
		Employees:   len(employees),
		Drivers:     len(drivers),
		Vehicles:    len(vehicles),
		Allocations: len(allocations),
	}
	s.cfg.Log.Info("Demo data seeded",
		"employees", summary.Employees,
		"drivers", summary.Drivers,
		"vehicles", summary.Vehicles,
		"allocations", summary.Allocations,
	)
	return summary, nil
}

package service

import (
	"context"
	"errors"
	"sync"

	fleeterrors "fleetalloc/internal/fleet/errors"
	"fleetalloc/internal/fleet/repository"
	"fleetalloc/internal/fleet/validator"
	"fleetalloc/pkg/config"
	mongodb "fleetalloc/pkg/db/mongo"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
	"fleetalloc/pkg/sanitizer"
)

type VehicleService interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, int64, error)
	Update(ctx context.Context, id string, updates *model.VehicleUpdate) error
	Deactivate(ctx context.Context, id string) error
}

type vehicleService struct {
	repo       repository.VehicleRepository
	driverRepo repository.DriverRepository
	validator  *validator.FleetValidator
	cfg        *config.Config
}

func NewVehicleService(
	repo repository.VehicleRepository,
	driverRepo repository.DriverRepository,
	fleetValidator *validator.FleetValidator,
	cfg *config.Config,
) VehicleService {
	return &vehicleService{
		repo:       repo,
		driverRepo: driverRepo,
		validator:  fleetValidator,
		cfg:        cfg,
	}
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle) error {
	s.sanitize(vehicle)
	vehicle.Active = true

	if err := s.validator.ValidateVehicle(vehicle); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed", "error", err)
		return apperrors.Validation("Vehicle validation failed", map[string]any{"error": err.Error()})
	}

	if vehicle.DriverID != "" {
		if err := s.checkDriverAssignable(ctx, vehicle.DriverID, ""); err != nil {
			return err
		}
	}

	if _, err := s.repo.FindByPlate(ctx, vehicle.RegistrationNumber); err == nil {
		return apperrors.Conflict("Registration number already in use")
	} else if !errors.Is(err, fleeterrors.ErrVehicleNotFound) {
		return s.storeError("Failed to check registration number", err)
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, fleeterrors.ErrPlateTaken) {
			return apperrors.Conflict("Registration number already in use")
		}
		return s.storeError("Failed to create vehicle", err)
	}

	s.cfg.Log.Info("Vehicle created successfully",
		"id", vehicle.ID,
		"registration_number", vehicle.RegistrationNumber,
	)
	return nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	return vehicle, nil
}

func (s *vehicleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, int64, error) {
	var count int64
	var vehicles []*model.Vehicle
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count vehicles", "error", errCount)
			errCount = s.storeError("Failed to count vehicles", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		vehicles, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list vehicles", "error", errFind)
			errFind = s.storeError("Failed to retrieve vehicles", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return vehicles, count, nil
}

func (s *vehicleService) Update(ctx context.Context, id string, updates *model.VehicleUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(id, err)
	}

	if err := s.validator.ValidateVehicleUpdate(updates); err != nil {
		s.cfg.Log.Warn("Vehicle update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)

	if err := s.validator.ValidateVehicle(merged); err != nil {
		return apperrors.Validation("Vehicle validation failed", map[string]any{"error": err.Error()})
	}

	if merged.DriverID != "" && merged.DriverID != existing.DriverID {
		if err := s.checkDriverAssignable(ctx, merged.DriverID, id); err != nil {
			return err
		}
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, fleeterrors.ErrPlateTaken) {
			return apperrors.Conflict("Registration number already in use")
		}
		if errors.Is(err, fleeterrors.ErrVehicleNotFound) {
			return apperrors.NotFoundWithID("Vehicle", id)
		}
		return s.storeError("Failed to update vehicle", err)
	}

	s.cfg.Log.Info("Vehicle updated successfully", "id", id)
	return nil
}

// Deactivate retires a vehicle from the fleet. The record is kept so
// past allocations stay resolvable; the vehicle simply stops showing up
// in availability and stops accepting new allocations.
func (s *vehicleService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(id, err)
	}

	if !existing.Active {
		s.cfg.Log.Info("Vehicle already inactive", "id", id)
		return nil
	}

	existing.Active = false
	if err := s.repo.Update(ctx, id, existing); err != nil {
		return s.storeError("Failed to deactivate vehicle", err)
	}

	s.cfg.Log.Info("Vehicle deactivated", "id", id)
	return nil
}

func (s *vehicleService) checkDriverAssignable(ctx context.Context, driverID, vehicleID string) error {
	if _, err := s.driverRepo.FindByID(ctx, driverID); err != nil {
		if errors.Is(err, fleeterrors.ErrDriverNotFound) {
			return apperrors.NotFoundWithID("Driver", driverID)
		}
		if errors.Is(err, fleeterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid driver ID format")
		}
		return s.storeError("Failed to check driver existence", err)
	}

	assigned, err := s.repo.FindByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, fleeterrors.ErrVehicleNotFound) {
			return nil
		}
		return s.storeError("Failed to check driver assignment", err)
	}
	if assigned.ID != vehicleID {
		return apperrors.Conflict("Driver is already assigned to another vehicle")
	}
	return nil
}

func (s *vehicleService) sanitize(v *model.Vehicle) {
	v.Brand = sanitizer.TrimAndNormalize(v.Brand)
	v.Model = sanitizer.TrimAndNormalize(v.Model)
	v.RegistrationNumber = sanitizer.NormalizePlate(v.RegistrationNumber)
}

func (s *vehicleService) merge(existing *model.Vehicle, updates *model.VehicleUpdate) *model.Vehicle {
	merged := *existing

	if updates.Brand != "" {
		merged.Brand = updates.Brand
	}
	if updates.Model != "" {
		merged.Model = updates.Model
	}
	if updates.RegistrationNumber != "" {
		merged.RegistrationNumber = updates.RegistrationNumber
	}
	if updates.DriverID != "" {
		merged.DriverID = updates.DriverID
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}

func (s *vehicleService) lookupError(id string, err error) error {
	if errors.Is(err, fleeterrors.ErrVehicleNotFound) {
		return apperrors.NotFoundWithID("Vehicle", id)
	}
	if errors.Is(err, fleeterrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid vehicle ID format")
	}
	return s.storeError("Failed to retrieve vehicle", err)
}

func (s *vehicleService) storeError(message string, err error) error {
	if mongodb.IsUnavailable(err) {
		return apperrors.Unavailable("Entity store", err)
	}
	return apperrors.Internal(message, err)
}

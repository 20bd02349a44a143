package service

import (
	"context"
	"errors"

	fleeterrors "fleetalloc/internal/fleet/errors"
	"fleetalloc/internal/fleet/repository"
	"fleetalloc/internal/fleet/validator"
	"fleetalloc/pkg/config"
	mongodb "fleetalloc/pkg/db/mongo"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
	"fleetalloc/pkg/sanitizer"
)

type DriverService interface {
	Create(ctx context.Context, driver *model.Driver) error
	GetByID(ctx context.Context, id string) (*model.Driver, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Driver, int64, error)
}

type driverService struct {
	repo      repository.DriverRepository
	validator *validator.FleetValidator
	cfg       *config.Config
}

func NewDriverService(
	repo repository.DriverRepository,
	fleetValidator *validator.FleetValidator,
	cfg *config.Config,
) DriverService {
	return &driverService{
		repo:      repo,
		validator: fleetValidator,
		cfg:       cfg,
	}
}

func (s *driverService) Create(ctx context.Context, driver *model.Driver) error {
	driver.Name = sanitizer.NormalizeName(driver.Name)
	driver.ContactNumber = sanitizer.NormalizePhone(driver.ContactNumber)

	if err := s.validator.ValidateDriver(driver); err != nil {
		s.cfg.Log.Warn("Driver validation failed", "error", err)
		return apperrors.Validation("Driver validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, driver); err != nil {
		if mongodb.IsUnavailable(err) {
			return apperrors.Unavailable("Entity store", err)
		}
		return apperrors.Internal("Failed to create driver", err)
	}

	s.cfg.Log.Info("Driver created successfully", "id", driver.ID)
	return nil
}

func (s *driverService) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Driver ID cannot be empty")
	}

	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, fleeterrors.ErrDriverNotFound) {
			return nil, apperrors.NotFoundWithID("Driver", id)
		}
		if errors.Is(err, fleeterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid driver ID format")
		}
		if mongodb.IsUnavailable(err) {
			return nil, apperrors.Unavailable("Entity store", err)
		}
		return nil, apperrors.Internal("Failed to retrieve driver", err)
	}

	return driver, nil
}

func (s *driverService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Driver, int64, error) {
	drivers, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		if mongodb.IsUnavailable(err) {
			return nil, 0, apperrors.Unavailable("Entity store", err)
		}
		return nil, 0, apperrors.Internal("Failed to retrieve drivers", err)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		if mongodb.IsUnavailable(err) {
			return nil, 0, apperrors.Unavailable("Entity store", err)
		}
		return nil, 0, apperrors.Internal("Failed to count drivers", err)
	}

	return drivers, count, nil
}

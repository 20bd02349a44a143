package service

import (
	"context"

	"fleetalloc/internal/allocations/repository"
	fleetrepo "fleetalloc/internal/fleet/repository"
	"fleetalloc/pkg/config"
	mongodb "fleetalloc/pkg/db/mongo"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, date string) (*model.VehicleAvailability, error)
}

type availabilityService struct {
	repo        repository.AllocationRepository
	vehicleRepo fleetrepo.VehicleRepository
	cfg         *config.Config
}

func NewAvailabilityService(
	repo repository.AllocationRepository,
	vehicleRepo fleetrepo.VehicleRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		cfg:         cfg,
	}
}

// GetAvailability reports which active vehicles are free on a date.
// The fleet scan and the allocation scan run in one transaction so the
// result is a single snapshot: an allocation committed mid-query can
// never make a vehicle show up as both allocated and available.
func (s *availabilityService) GetAvailability(ctx context.Context, date string) (*model.VehicleAvailability, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	var fleet []*model.Vehicle
	var allocated []string

	txnErr := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		fleet, err = s.vehicleRepo.FindActive(sessCtx)
		if err != nil {
			return err
		}
		allocated, err = s.repo.AllocatedVehicleIDs(sessCtx, day)
		return err
	})
	if txnErr != nil {
		if apperrors.IsAppError(txnErr) {
			return nil, txnErr
		}
		if mongodb.IsUnavailable(txnErr) {
			return nil, apperrors.Unavailable("Allocation store", txnErr)
		}
		return nil, apperrors.Internal("Failed to compute availability", txnErr)
	}

	taken := make(map[string]struct{}, len(allocated))
	for _, id := range allocated {
		taken[id] = struct{}{}
	}

	available := make([]*model.Vehicle, 0, len(fleet))
	for _, vehicle := range fleet {
		if _, ok := taken[vehicle.ID]; !ok {
			available = append(available, vehicle)
		}
	}

	return &model.VehicleAvailability{
		Date:              day,
		TotalVehicles:     len(fleet),
		AllocatedVehicles: len(fleet) - len(available),
		AvailableVehicles: len(available),
		Vehicles:          available,
	}, nil
}

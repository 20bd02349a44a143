package service

import (
	"context"
	"time"

	"fleetalloc/internal/allocations/repository"
	fleetrepo "fleetalloc/internal/fleet/repository"
	"fleetalloc/pkg/config"
	mongodb "fleetalloc/pkg/db/mongo"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
)

type StatsService interface {
	GetReport(ctx context.Context, from, to string) (*model.AllocationReport, error)
}

type statsService struct {
	repo        repository.AllocationRepository
	vehicleRepo fleetrepo.VehicleRepository
	cfg         *config.Config
}

func NewStatsService(
	repo repository.AllocationRepository,
	vehicleRepo fleetrepo.VehicleRepository,
	cfg *config.Config,
) StatsService {
	return &statsService{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		cfg:         cfg,
	}
}

// GetReport aggregates active allocations over a date range. Either
// bound may be omitted; an open end is clamped to the earliest or
// latest active allocation date on record, so an unbounded report
// covers exactly the observed data.
func (s *statsService) GetReport(ctx context.Context, from, to string) (*model.AllocationReport, error) {
	var fromDay, toDay *time.Time

	if from != "" {
		day, err := parseDay(from)
		if err != nil {
			return nil, err
		}
		fromDay = &day
	}
	if to != "" {
		day, err := parseDay(to)
		if err != nil {
			return nil, err
		}
		toDay = &day
	}
	if fromDay != nil && toDay != nil && toDay.Before(*fromDay) {
		return nil, apperrors.InvalidDate("Report range end cannot be before its start")
	}

	if fromDay == nil || toDay == nil {
		bounds, err := s.repo.ActiveDateBounds(ctx)
		if err != nil {
			return nil, s.storeError("Failed to resolve report range", err)
		}
		if bounds == nil {
			// Nothing on record: an all-zero report.
			return &model.AllocationReport{
				From:       fromDay,
				To:         toDay,
				ByVehicle:  map[string]int64{},
				ByEmployee: map[string]int64{},
			}, nil
		}
		if fromDay == nil {
			day := model.Day(bounds.Min)
			fromDay = &day
		}
		if toDay == nil {
			day := model.Day(bounds.Max)
			toDay = &day
		}
		// A supplied bound can fall outside the observed dates, leaving
		// the clamped range empty.
		if toDay.Before(*fromDay) {
			return &model.AllocationReport{
				From:       fromDay,
				To:         toDay,
				ByVehicle:  map[string]int64{},
				ByEmployee: map[string]int64{},
			}, nil
		}
	}

	total, err := s.repo.CountActive(ctx, *fromDay, *toDay)
	if err != nil {
		return nil, s.storeError("Failed to count allocations", err)
	}

	byVehicle, err := s.repo.CountByVehicle(ctx, *fromDay, *toDay)
	if err != nil {
		return nil, s.storeError("Failed to aggregate by vehicle", err)
	}

	byEmployee, err := s.repo.CountByEmployee(ctx, *fromDay, *toDay)
	if err != nil {
		return nil, s.storeError("Failed to aggregate by employee", err)
	}

	activeVehicles, err := s.vehicleRepo.CountActive(ctx)
	if err != nil {
		return nil, s.storeError("Failed to count fleet vehicles", err)
	}

	report := &model.AllocationReport{
		From:                 fromDay,
		To:                   toDay,
		TotalActive:          total,
		ByVehicle:            make(map[string]int64, len(byVehicle)),
		ByEmployee:           make(map[string]int64, len(byEmployee)),
		AllocatedVehicleDays: total,
	}
	for _, row := range byVehicle {
		report.ByVehicle[row.VehicleID] = row.Count
	}
	for _, row := range byEmployee {
		report.ByEmployee[row.EmployeeID] = row.Count
	}

	days := int64(toDay.Sub(*fromDay)/(24*time.Hour)) + 1
	report.AvailableVehicleDays = activeVehicles * days
	if report.AvailableVehicleDays > 0 {
		report.Utilization = float64(report.AllocatedVehicleDays) / float64(report.AvailableVehicleDays)
	}

	return report, nil
}

func (s *statsService) storeError(message string, err error) error {
	if mongodb.IsUnavailable(err) {
		return apperrors.Unavailable("Allocation store", err)
	}
	return apperrors.Internal(message, err)
}

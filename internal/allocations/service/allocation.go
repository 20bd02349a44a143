package service

import (
	"context"
	"errors"
	"sync"
	"time"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/internal/allocations/repository"
	"fleetalloc/internal/allocations/validator"
	fleeterrors "fleetalloc/internal/fleet/errors"
	fleetrepo "fleetalloc/internal/fleet/repository"
	"fleetalloc/pkg/config"
	mongodb "fleetalloc/pkg/db/mongo"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/model"
	"fleetalloc/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type AllocationService interface {
	Create(ctx context.Context, allocation *model.Allocation) error
	GetByID(ctx context.Context, id string) (*model.Allocation, error)
	List(ctx context.Context, filter model.AllocationFilter, limit int, offset int64) ([]*model.Allocation, int64, error)
	Update(ctx context.Context, id string, updates *model.AllocationUpdate) (*model.Allocation, error)
	Cancel(ctx context.Context, id string) (*model.Allocation, error)
}

type allocationService struct {
	repo         repository.AllocationRepository
	vehicleRepo  fleetrepo.VehicleRepository
	employeeRepo fleetrepo.EmployeeRepository
	validator    *validator.AllocationValidator
	events       EventPublisher
	cfg          *config.Config

	// now is swappable so date-rule behavior is testable.
	now func() time.Time
}

func NewAllocationService(
	repo repository.AllocationRepository,
	vehicleRepo fleetrepo.VehicleRepository,
	employeeRepo fleetrepo.EmployeeRepository,
	allocationValidator *validator.AllocationValidator,
	events EventPublisher,
	cfg *config.Config,
) AllocationService {
	return &allocationService{
		repo:         repo,
		vehicleRepo:  vehicleRepo,
		employeeRepo: employeeRepo,
		validator:    allocationValidator,
		events:       events,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Create books a vehicle for an employee on a calendar date. The
// free-slot check and the insert run inside one transaction, and the
// partial unique index backstops the check: of any number of concurrent
// requests for the same (vehicle, date), exactly one insert lands and
// the rest surface a conflict.
func (s *allocationService) Create(ctx context.Context, allocation *model.Allocation) error {
	allocation.Purpose = sanitizer.TrimAndNormalize(allocation.Purpose)
	allocation.Status = model.AllocationActive
	allocation.AllocationDate = model.Day(allocation.AllocationDate)

	if err := s.validator.ValidateAllocation(allocation); err != nil {
		s.cfg.Log.Warn("Allocation validation failed", "error", err)
		return apperrors.Validation("Allocation validation failed", map[string]any{"error": err.Error()})
	}

	today := model.Day(s.now())
	if allocation.AllocationDate.Before(today) {
		return apperrors.InvalidDate("Allocation date cannot be in the past")
	}

	if err := s.checkVehicleAllocatable(ctx, allocation.VehicleID); err != nil {
		return err
	}
	if err := s.checkEmployeeAllocatable(ctx, allocation.EmployeeID); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		free, err := s.repo.IsVehicleFree(sessCtx, allocation.VehicleID, allocation.AllocationDate)
		if err != nil {
			return s.storeError("Failed to check vehicle availability", err)
		}
		if !free {
			return apperrors.Conflict("Vehicle is already allocated on this date")
		}
		if err := s.repo.Insert(sessCtx, allocation); err != nil {
			if errors.Is(err, allocerrors.ErrVehicleDayTaken) {
				return apperrors.Conflict("Vehicle is already allocated on this date")
			}
			return s.storeError("Failed to create allocation", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return s.storeError("Failed to create allocation", err)
	}

	s.cfg.Log.Info("Allocation created successfully",
		"id", allocation.ID,
		"vehicle_id", allocation.VehicleID,
		"employee_id", allocation.EmployeeID,
		"allocation_date", allocation.AllocationDate.Format(model.DateLayout),
	)
	s.publishEvent(ctx, EventAllocationCreated, allocation)
	return nil
}

func (s *allocationService) GetByID(ctx context.Context, id string) (*model.Allocation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Allocation ID cannot be empty")
	}

	allocation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return allocation, nil
}

func (s *allocationService) List(ctx context.Context, filter model.AllocationFilter, limit int, offset int64) ([]*model.Allocation, int64, error) {
	if err := s.validator.ValidateFilter(filter); err != nil {
		return nil, 0, apperrors.Validation("Invalid allocation filter", map[string]any{"error": err.Error()})
	}

	var count int64
	var allocations []*model.Allocation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count allocations", "error", errCount)
			errCount = s.storeError("Failed to count allocations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		allocations, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list allocations", "error", errFind)
			errFind = s.storeError("Failed to retrieve allocations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return allocations, count, nil
}

// Update changes the purpose of an active allocation. Edits close on
// the allocation date itself; the booking is then in effect and only
// cancellation remains possible.
func (s *allocationService) Update(ctx context.Context, id string, updates *model.AllocationUpdate) (*model.Allocation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Allocation ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	if existing.Status != model.AllocationActive {
		return nil, apperrors.Validation("Cannot modify a cancelled allocation", nil)
	}

	today := model.Day(s.now())
	if !existing.AllocationDate.After(today) {
		return nil, apperrors.Validation("Allocation can only be modified before its date", nil)
	}

	purpose := sanitizer.TrimAndNormalize(updates.Purpose)
	if err := s.repo.UpdatePurpose(ctx, id, purpose); err != nil {
		if errors.Is(err, allocerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Allocation", id)
		}
		return nil, s.storeError("Failed to update allocation", err)
	}

	existing.Purpose = purpose
	s.cfg.Log.Info("Allocation updated successfully", "id", id)
	return existing, nil
}

// Cancel marks an allocation cancelled and frees its slot. Cancelling
// an already cancelled allocation is a no-op that reports success, so
// retried cancellations never error. The record itself is kept for
// audit.
func (s *allocationService) Cancel(ctx context.Context, id string) (*model.Allocation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Allocation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	if existing.Status == model.AllocationCancelled {
		s.cfg.Log.Info("Allocation already cancelled", "id", id)
		return existing, nil
	}

	transitioned, err := s.repo.UpdateStatus(ctx, id, model.AllocationActive, model.AllocationCancelled)
	if err != nil {
		return nil, s.storeError("Failed to cancel allocation", err)
	}
	if !transitioned {
		// Lost a race with another cancel. Refetch to confirm.
		refetched, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, s.lookupError(id, err)
		}
		if refetched.Status == model.AllocationCancelled {
			return refetched, nil
		}
		return nil, apperrors.Internal("Failed to cancel allocation", nil)
	}

	existing.Status = model.AllocationCancelled
	s.cfg.Log.Info("Allocation cancelled", "id", id, "vehicle_id", existing.VehicleID)
	s.publishEvent(ctx, EventAllocationCancelled, existing)
	return existing, nil
}

func (s *allocationService) checkVehicleAllocatable(ctx context.Context, vehicleID string) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, fleeterrors.ErrVehicleNotFound) {
			return apperrors.NotFoundWithID("Vehicle", vehicleID)
		}
		if errors.Is(err, fleeterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid vehicle ID format")
		}
		return s.storeError("Failed to check vehicle existence", err)
	}
	if !vehicle.Active {
		return apperrors.Validation("Vehicle is not active", map[string]any{"vehicle_id": vehicleID})
	}
	return nil
}

func (s *allocationService) checkEmployeeAllocatable(ctx context.Context, employeeID string) error {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, fleeterrors.ErrEmployeeNotFound) {
			return apperrors.NotFoundWithID("Employee", employeeID)
		}
		if errors.Is(err, fleeterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid employee ID format")
		}
		return s.storeError("Failed to check employee existence", err)
	}
	if !employee.Active {
		return apperrors.Validation("Employee is not active", map[string]any{"employee_id": employeeID})
	}
	return nil
}

func (s *allocationService) lookupError(id string, err error) error {
	if errors.Is(err, allocerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Allocation", id)
	}
	if errors.Is(err, allocerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid allocation ID format")
	}
	return s.storeError("Failed to retrieve allocation", err)
}

func (s *allocationService) storeError(message string, err error) error {
	if mongodb.IsUnavailable(err) {
		return apperrors.Unavailable("Allocation store", err)
	}
	return apperrors.Internal(message, err)
}

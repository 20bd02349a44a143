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

type EmployeeService interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, int64, error)
	Update(ctx context.Context, id string, updates *model.EmployeeUpdate) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	validator *validator.FleetValidator
	cfg       *config.Config
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	fleetValidator *validator.FleetValidator,
	cfg *config.Config,
) EmployeeService {
	return &employeeService{
		repo:      repo,
		validator: fleetValidator,
		cfg:       cfg,
	}
}

func (s *employeeService) Create(ctx context.Context, employee *model.Employee) error {
	s.sanitize(employee)
	employee.Active = true

	if err := s.validator.ValidateEmployee(employee); err != nil {
		s.cfg.Log.Warn("Employee validation failed", "error", err)
		return apperrors.Validation("Employee validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return s.storeError("Failed to create employee", err)
	}

	s.cfg.Log.Info("Employee created successfully",
		"id", employee.ID,
		"department", employee.Department,
	)
	return nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Employee ID cannot be empty")
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	return employee, nil
}

func (s *employeeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, int64, error) {
	var count int64
	var employees []*model.Employee
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count employees", "error", errCount)
			errCount = s.storeError("Failed to count employees", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		employees, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list employees", "error", errFind)
			errFind = s.storeError("Failed to retrieve employees", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return employees, count, nil
}

func (s *employeeService) Update(ctx context.Context, id string, updates *model.EmployeeUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(id, err)
	}

	if err := s.validator.ValidateEmployeeUpdate(updates); err != nil {
		s.cfg.Log.Warn("Employee update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)

	if err := s.validator.ValidateEmployee(merged); err != nil {
		return apperrors.Validation("Employee validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, fleeterrors.ErrEmployeeNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		return s.storeError("Failed to update employee", err)
	}

	s.cfg.Log.Info("Employee updated successfully", "id", id)
	return nil
}

func (s *employeeService) sanitize(e *model.Employee) {
	e.Name = sanitizer.NormalizeName(e.Name)
	e.Department = sanitizer.NormalizeDepartment(e.Department)
	e.Email = sanitizer.NormalizeEmail(e.Email)
}

func (s *employeeService) merge(existing *model.Employee, updates *model.EmployeeUpdate) *model.Employee {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Department != "" {
		merged.Department = updates.Department
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}

func (s *employeeService) lookupError(id string, err error) error {
	if errors.Is(err, fleeterrors.ErrEmployeeNotFound) {
		return apperrors.NotFoundWithID("Employee", id)
	}
	if errors.Is(err, fleeterrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid employee ID format")
	}
	return s.storeError("Failed to retrieve employee", err)
}

func (s *employeeService) storeError(message string, err error) error {
	if mongodb.IsUnavailable(err) {
		return apperrors.Unavailable("Entity store", err)
	}
	return apperrors.Internal(message, err)
}

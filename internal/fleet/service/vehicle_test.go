package service

import (
	"context"
	"io"
	"testing"

	fleeterrors "fleetalloc/internal/fleet/errors"
	"fleetalloc/internal/fleet/validator"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

const (
	testVehicleID = "507f1f77bcf86cd799439011"
	testDriverID  = "507f1f77bcf86cd799439041"
)

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
	}
}

// Mock vehicle repository with function fields
type mockVehicleRepo struct {
	createFunc         func(ctx context.Context, v *model.Vehicle) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Vehicle, error)
	findByPlateFunc    func(ctx context.Context, plate string) (*model.Vehicle, error)
	findByDriverIDFunc func(ctx context.Context, driverID string) (*model.Vehicle, error)
	updateFunc         func(ctx context.Context, id string, v *model.Vehicle) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, v)
	}
	v.ID = testVehicleID
	return nil
}

func (m *mockVehicleRepo) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, fleeterrors.ErrVehicleNotFound
}

func (m *mockVehicleRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Vehicle, error) {
	return []*model.Vehicle{}, nil
}

func (m *mockVehicleRepo) FindActive(ctx context.Context) ([]*model.Vehicle, error) {
	return []*model.Vehicle{}, nil
}

func (m *mockVehicleRepo) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	if m.findByPlateFunc != nil {
		return m.findByPlateFunc(ctx, plate)
	}
	return nil, fleeterrors.ErrVehicleNotFound
}

func (m *mockVehicleRepo) FindByDriverID(ctx context.Context, driverID string) (*model.Vehicle, error) {
	if m.findByDriverIDFunc != nil {
		return m.findByDriverIDFunc(ctx, driverID)
	}
	return nil, fleeterrors.ErrVehicleNotFound
}

func (m *mockVehicleRepo) Update(ctx context.Context, id string, v *model.Vehicle) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, v)
	}
	return nil
}

func (m *mockVehicleRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockVehicleRepo) CountActive(ctx context.Context) (int64, error) { return 0, nil }

// Mock driver repository
type mockDriverRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Driver, error)
}

func (m *mockDriverRepo) Create(ctx context.Context, d *model.Driver) error { return nil }

func (m *mockDriverRepo) FindByID(ctx context.Context, id string) (*model.Driver, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Driver{ID: id, Name: "Avi Cohen", LicenseNumber: "DL-100200"}, nil
}

func (m *mockDriverRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Driver, error) {
	return nil, nil
}

func (m *mockDriverRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func newVehicleService(repo *mockVehicleRepo, drivers *mockDriverRepo) VehicleService {
	cfg := testConfig()
	return NewVehicleService(repo, drivers, validator.NewFleetValidator(cfg.Log), cfg)
}

func TestVehicleCreate_NormalizesPlate(t *testing.T) {
	var created *model.Vehicle
	repo := &mockVehicleRepo{
		createFunc: func(ctx context.Context, v *model.Vehicle) error {
			created = v
			return nil
		},
	}
	svc := newVehicleService(repo, &mockDriverRepo{})

	vehicle := &model.Vehicle{Brand: "  Toyota ", Model: "Corolla", RegistrationNumber: "fl 1001"}
	if err := svc.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if created.RegistrationNumber != "FL-1001" {
		t.Errorf("expected normalized plate FL-1001, got %q", created.RegistrationNumber)
	}
	if created.Brand != "Toyota" {
		t.Errorf("expected trimmed brand, got %q", created.Brand)
	}
	if !created.Active {
		t.Error("new vehicles must start active")
	}
}

func TestVehicleCreate_PlateConflict(t *testing.T) {
	repo := &mockVehicleRepo{
		findByPlateFunc: func(ctx context.Context, plate string) (*model.Vehicle, error) {
			return &model.Vehicle{ID: "507f1f77bcf86cd799439099", RegistrationNumber: plate}, nil
		},
	}
	svc := newVehicleService(repo, &mockDriverRepo{})

	err := svc.Create(context.Background(), &model.Vehicle{Brand: "Ford", Model: "Transit", RegistrationNumber: "FL-1001"})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict, got: %v", err)
	}
}

func TestVehicleCreate_DriverAlreadyAssigned(t *testing.T) {
	repo := &mockVehicleRepo{
		findByDriverIDFunc: func(ctx context.Context, driverID string) (*model.Vehicle, error) {
			return &model.Vehicle{ID: "507f1f77bcf86cd799439098", DriverID: driverID}, nil
		},
	}
	svc := newVehicleService(repo, &mockDriverRepo{})

	err := svc.Create(context.Background(), &model.Vehicle{
		Brand: "Tesla", Model: "Model 3", RegistrationNumber: "FL-1003", DriverID: testDriverID,
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict for assigned driver, got: %v", err)
	}
}

func TestVehicleCreate_ValidationFailure(t *testing.T) {
	svc := newVehicleService(&mockVehicleRepo{}, &mockDriverRepo{})

	err := svc.Create(context.Background(), &model.Vehicle{Brand: "Ford"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("expected validation error, got: %v", err)
	}
}

func TestVehicleDeactivate_Idempotent(t *testing.T) {
	updateCalled := false
	repo := &mockVehicleRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) {
			return &model.Vehicle{ID: id, Brand: "Ford", Model: "Transit", RegistrationNumber: "FL-1002", Active: false}, nil
		},
		updateFunc: func(ctx context.Context, id string, v *model.Vehicle) error {
			updateCalled = true
			return nil
		},
	}
	svc := newVehicleService(repo, &mockDriverRepo{})

	if err := svc.Deactivate(context.Background(), testVehicleID); err != nil {
		t.Fatalf("deactivating an inactive vehicle must succeed, got: %v", err)
	}
	if updateCalled {
		t.Error("no write expected for an already inactive vehicle")
	}
}

func TestVehicleDeactivate_Success(t *testing.T) {
	var updated *model.Vehicle
	repo := &mockVehicleRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) {
			return &model.Vehicle{ID: id, Brand: "Ford", Model: "Transit", RegistrationNumber: "FL-1002", Active: true}, nil
		},
		updateFunc: func(ctx context.Context, id string, v *model.Vehicle) error {
			updated = v
			return nil
		},
	}
	svc := newVehicleService(repo, &mockDriverRepo{})

	if err := svc.Deactivate(context.Background(), testVehicleID); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if updated == nil || updated.Active {
		t.Error("expected vehicle persisted as inactive")
	}
}

func TestVehicleGetByID_NotFound(t *testing.T) {
	svc := newVehicleService(&mockVehicleRepo{}, &mockDriverRepo{})

	_, err := svc.GetByID(context.Background(), testVehicleID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got: %v", err)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"fleetalloc/pkg/model"

	apperrors "fleetalloc/pkg/errors"
)

func testFleet() []*model.Vehicle {
	return []*model.Vehicle{
		{ID: testVehicleID, Brand: "Toyota", Model: "Corolla", RegistrationNumber: "FL-1001", Active: true},
		{ID: testVehicleID2, Brand: "Ford", Model: "Transit", RegistrationNumber: "FL-1002", Active: true},
	}
}

func TestAvailability_AllFree(t *testing.T) {
	vehicles := &mockVehicleRepo{
		findActiveFunc: func(ctx context.Context) ([]*model.Vehicle, error) {
			return testFleet(), nil
		},
	}
	svc := NewAvailabilityService(&mockAllocationRepo{}, vehicles, testConfig())

	availability, err := svc.GetAvailability(context.Background(), "2026-03-11")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if availability.TotalVehicles != 2 || availability.AvailableVehicles != 2 || availability.AllocatedVehicles != 0 {
		t.Errorf("unexpected counts: %+v", availability)
	}
	if availability.Date != time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC) {
		t.Errorf("expected UTC midnight date, got %v", availability.Date)
	}
}

func TestAvailability_ExcludesAllocatedVehicle(t *testing.T) {
	vehicles := &mockVehicleRepo{
		findActiveFunc: func(ctx context.Context) ([]*model.Vehicle, error) {
			return testFleet(), nil
		},
	}
	repo := &mockAllocationRepo{
		allocatedIDsFunc: func(ctx context.Context, date time.Time) ([]string, error) {
			return []string{testVehicleID}, nil
		},
	}
	svc := NewAvailabilityService(repo, vehicles, testConfig())

	availability, err := svc.GetAvailability(context.Background(), "2026-03-11")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if availability.AllocatedVehicles != 1 || availability.AvailableVehicles != 1 {
		t.Errorf("unexpected counts: %+v", availability)
	}
	if len(availability.Vehicles) != 1 || availability.Vehicles[0].ID != testVehicleID2 {
		t.Errorf("expected only the free vehicle, got %+v", availability.Vehicles)
	}
}

// A cancelled allocation no longer appears in the allocated set, so the
// vehicle is free again; an allocation of a deactivated vehicle must
// not leak into the report either.
func TestAvailability_IgnoresAllocationsOfRetiredVehicles(t *testing.T) {
	vehicles := &mockVehicleRepo{
		findActiveFunc: func(ctx context.Context) ([]*model.Vehicle, error) {
			return testFleet()[:1], nil
		},
	}
	repo := &mockAllocationRepo{
		allocatedIDsFunc: func(ctx context.Context, date time.Time) ([]string, error) {
			return []string{testVehicleID2}, nil
		},
	}
	svc := NewAvailabilityService(repo, vehicles, testConfig())

	availability, err := svc.GetAvailability(context.Background(), "2026-03-11")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if availability.TotalVehicles != 1 || availability.AvailableVehicles != 1 {
		t.Errorf("unexpected counts: %+v", availability)
	}
}

func TestAvailability_InvalidDate(t *testing.T) {
	svc := NewAvailabilityService(&mockAllocationRepo{}, &mockVehicleRepo{}, testConfig())

	for _, date := range []string{"", "11-03-2026", "2026-13-40", "tomorrow"} {
		_, err := svc.GetAvailability(context.Background(), date)
		if !apperrors.HasCode(err, apperrors.CodeInvalidDate) {
			t.Errorf("date %q: expected invalid date error, got: %v", date, err)
		}
	}
}

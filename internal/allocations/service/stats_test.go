package service

import (
	"context"
	"testing"
	"time"

	"fleetalloc/internal/allocations/repository"
	apperrors "fleetalloc/pkg/errors"
)

func statsRepo() *mockAllocationRepo {
	return &mockAllocationRepo{
		countActiveFunc: func(ctx context.Context, from, to time.Time) (int64, error) {
			return 6, nil
		},
		countByVehicleFunc: func(ctx context.Context, from, to time.Time) ([]repository.VehicleCount, error) {
			return []repository.VehicleCount{
				{VehicleID: testVehicleID, Count: 4},
				{VehicleID: testVehicleID2, Count: 2},
			}, nil
		},
		countByEmployeeFunc: func(ctx context.Context, from, to time.Time) ([]repository.EmployeeCount, error) {
			return []repository.EmployeeCount{
				{EmployeeID: testEmployeeID, Count: 6},
			}, nil
		},
	}
}

func TestStats_BoundedRange(t *testing.T) {
	vehicles := &mockVehicleRepo{
		countActiveFunc: func(ctx context.Context) (int64, error) { return 4, nil },
	}
	svc := NewStatsService(statsRepo(), vehicles, testConfig())

	report, err := svc.GetReport(context.Background(), "2026-03-10", "2026-03-12")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if report.TotalActive != 6 {
		t.Errorf("expected 6 active, got %d", report.TotalActive)
	}
	if report.ByVehicle[testVehicleID] != 4 || report.ByVehicle[testVehicleID2] != 2 {
		t.Errorf("unexpected vehicle breakdown: %v", report.ByVehicle)
	}
	if report.ByEmployee[testEmployeeID] != 6 {
		t.Errorf("unexpected employee breakdown: %v", report.ByEmployee)
	}

	// 4 vehicles over 3 days.
	if report.AllocatedVehicleDays != 6 {
		t.Errorf("expected 6 allocated vehicle-days, got %d", report.AllocatedVehicleDays)
	}
	if report.AvailableVehicleDays != 12 {
		t.Errorf("expected 12 available vehicle-days, got %d", report.AvailableVehicleDays)
	}
	if report.Utilization != 0.5 {
		t.Errorf("expected utilization 0.5, got %f", report.Utilization)
	}
}

func TestStats_OpenRangeClampsToObservedDates(t *testing.T) {
	repo := statsRepo()
	repo.activeDateBoundsFunc = func(ctx context.Context) (*repository.DateBounds, error) {
		return &repository.DateBounds{
			Min: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			Max: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		}, nil
	}
	vehicles := &mockVehicleRepo{
		countActiveFunc: func(ctx context.Context) (int64, error) { return 2, nil },
	}
	svc := NewStatsService(repo, vehicles, testConfig())

	report, err := svc.GetReport(context.Background(), "", "")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if report.From == nil || report.To == nil {
		t.Fatal("expected clamped bounds to be reported")
	}
	if !report.From.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) ||
		!report.To.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected clamped range: %v .. %v", report.From, report.To)
	}

	// 2 vehicles over 6 days.
	if report.AvailableVehicleDays != 12 {
		t.Errorf("expected 12 available vehicle-days, got %d", report.AvailableVehicleDays)
	}
}

func TestStats_ClampedRangeEmptyWhenBoundOutsideObservedDates(t *testing.T) {
	repo := statsRepo()
	repo.activeDateBoundsFunc = func(ctx context.Context) (*repository.DateBounds, error) {
		return &repository.DateBounds{
			Min: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Max: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}, nil
	}
	vehicles := &mockVehicleRepo{
		countActiveFunc: func(ctx context.Context) (int64, error) { return 5, nil },
	}
	svc := NewStatsService(repo, vehicles, testConfig())

	// From is after every allocation on record, so the clamped range
	// is empty.
	report, err := svc.GetReport(context.Background(), "2030-01-01", "")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if report.TotalActive != 0 {
		t.Errorf("expected 0 active, got %d", report.TotalActive)
	}
	if report.AvailableVehicleDays != 0 {
		t.Errorf("expected 0 available vehicle-days, got %d", report.AvailableVehicleDays)
	}
	if report.Utilization != 0 {
		t.Errorf("expected 0 utilization, got %f", report.Utilization)
	}
	if report.ByVehicle == nil || report.ByEmployee == nil {
		t.Error("expected empty maps, not nil")
	}

	// And the mirror case: To before every allocation on record.
	report, err = svc.GetReport(context.Background(), "", "2020-01-01")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if report.TotalActive != 0 || report.AvailableVehicleDays != 0 {
		t.Errorf("expected zero report, got %+v", report)
	}
}

func TestStats_EmptyDatasetZeroReport(t *testing.T) {
	svc := NewStatsService(&mockAllocationRepo{}, &mockVehicleRepo{}, testConfig())

	report, err := svc.GetReport(context.Background(), "", "")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if report.TotalActive != 0 || report.Utilization != 0 {
		t.Errorf("expected zero report, got %+v", report)
	}
	if report.ByVehicle == nil || report.ByEmployee == nil {
		t.Error("expected empty maps, not nil")
	}
}

func TestStats_InvalidRanges(t *testing.T) {
	svc := NewStatsService(&mockAllocationRepo{}, &mockVehicleRepo{}, testConfig())

	if _, err := svc.GetReport(context.Background(), "2026-03-15", "2026-03-10"); !apperrors.HasCode(err, apperrors.CodeInvalidDate) {
		t.Errorf("expected invalid date error for inverted range, got: %v", err)
	}
	if _, err := svc.GetReport(context.Background(), "March 10", ""); !apperrors.HasCode(err, apperrors.CodeInvalidDate) {
		t.Errorf("expected invalid date error for malformed from, got: %v", err)
	}
}

func TestStats_ZeroUtilizationWhenNoFleet(t *testing.T) {
	vehicles := &mockVehicleRepo{
		countActiveFunc: func(ctx context.Context) (int64, error) { return 0, nil },
	}
	svc := NewStatsService(statsRepo(), vehicles, testConfig())

	report, err := svc.GetReport(context.Background(), "2026-03-10", "2026-03-12")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if report.Utilization != 0 {
		t.Errorf("division by zero guard failed, got %f", report.Utilization)
	}
}

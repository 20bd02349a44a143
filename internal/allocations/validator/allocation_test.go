package validator

import (
	"io"
	"testing"
	"time"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

func testValidator() *AllocationValidator {
	return NewAllocationValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	}))
}

func TestValidateAllocation(t *testing.T) {
	v := testValidator()
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		allocation model.Allocation
		wantErr    bool
	}{
		{
			name: "valid",
			allocation: model.Allocation{
				VehicleID:      "507f1f77bcf86cd799439011",
				EmployeeID:     "507f1f77bcf86cd799439021",
				AllocationDate: date,
				Status:         model.AllocationActive,
			},
		},
		{
			name: "missing vehicle",
			allocation: model.Allocation{
				EmployeeID:     "507f1f77bcf86cd799439021",
				AllocationDate: date,
				Status:         model.AllocationActive,
			},
			wantErr: true,
		},
		{
			name: "vehicle ID not an ObjectID",
			allocation: model.Allocation{
				VehicleID:      "veh-1",
				EmployeeID:     "507f1f77bcf86cd799439021",
				AllocationDate: date,
				Status:         model.AllocationActive,
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			allocation: model.Allocation{
				VehicleID:      "507f1f77bcf86cd799439011",
				EmployeeID:     "507f1f77bcf86cd799439021",
				AllocationDate: date,
				Status:         "parked",
			},
			wantErr: true,
		},
		{
			name: "missing date",
			allocation: model.Allocation{
				VehicleID:  "507f1f77bcf86cd799439011",
				EmployeeID: "507f1f77bcf86cd799439021",
				Status:     model.AllocationActive,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAllocation(&tt.allocation)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAllocation() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilter(t *testing.T) {
	v := testValidator()
	early := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	if err := v.ValidateFilter(model.AllocationFilter{From: &early, To: &late}); err != nil {
		t.Errorf("well-formed range should pass, got: %v", err)
	}
	if err := v.ValidateFilter(model.AllocationFilter{From: &late, To: &early}); err == nil {
		t.Error("inverted range should fail")
	}
	if err := v.ValidateFilter(model.AllocationFilter{Status: model.AllocationCancelled}); err != nil {
		t.Errorf("cancelled status should pass, got: %v", err)
	}
	if err := v.ValidateFilter(model.AllocationFilter{Status: "parked"}); err == nil {
		t.Error("unknown status should fail")
	}
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2026-03-11")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if day != time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC) {
		t.Errorf("expected UTC midnight, got %v", day)
	}

	for _, bad := range []string{"", "11-03-2026", "2026-03-11T10:00:00Z", "2026-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

package model

import (
	"time"
)

// DateLayout is the wire format for allocation dates. Allocations are
// day-granular: no time-of-day component is ever significant.
const DateLayout = "2006-01-02"

type AllocationStatus string

const (
	AllocationActive    AllocationStatus = "active"
	AllocationCancelled AllocationStatus = "cancelled"
)

type Allocation struct {
	ID             string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID      string           `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	EmployeeID     string           `json:"employee_id" bson:"employee_id" validate:"required,mongodb"`
	AllocationDate time.Time        `json:"allocation_date" bson:"allocation_date" validate:"required"`
	Purpose        string           `json:"purpose,omitempty" bson:"purpose,omitempty" validate:"omitempty,max=200"`
	Status         AllocationStatus `json:"status" bson:"status" validate:"required,oneof=active cancelled"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt      time.Time        `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type AllocationUpdate struct {
	Purpose string `json:"purpose,omitempty" validate:"omitempty,max=200"`
}

// AllocationFilter narrows allocation queries. Zero-valued fields are
// ignored; From/To bound the allocation date inclusively.
type AllocationFilter struct {
	VehicleID  string
	EmployeeID string
	Status     AllocationStatus
	From       *time.Time
	To         *time.Time
}

// AllocationReport is the output of the statistics aggregator. Only
// active allocations contribute; cancelled ones are kept in storage for
// audit but never counted.
type AllocationReport struct {
	From                 *time.Time       `json:"from,omitempty"`
	To                   *time.Time       `json:"to,omitempty"`
	TotalActive          int64            `json:"total_active"`
	ByVehicle            map[string]int64 `json:"by_vehicle"`
	ByEmployee           map[string]int64 `json:"by_employee"`
	AllocatedVehicleDays int64            `json:"allocated_vehicle_days"`
	AvailableVehicleDays int64            `json:"available_vehicle_days"`
	Utilization          float64          `json:"utilization"`
}

// VehicleAvailability lists the vehicles free on a given date.
type VehicleAvailability struct {
	Date              time.Time  `json:"date"`
	TotalVehicles     int        `json:"total_vehicles"`
	AllocatedVehicles int        `json:"allocated_vehicles"`
	AvailableVehicles int        `json:"available_vehicles"`
	Vehicles          []*Vehicle `json:"vehicles"`
}

// Day truncates t to UTC midnight, the canonical representation of a
// calendar day throughout the system.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

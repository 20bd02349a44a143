package service

import (
	"context"
	"time"

	"fleetalloc/pkg/kafka"
	"fleetalloc/pkg/model"
)

const (
	EventAllocationCreated   = "allocation.created"
	EventAllocationCancelled = "allocation.cancelled"

	eventSchemaVersion = "1.0"
	eventSource        = "allocations-service"
)

// EventPublisher pushes allocation lifecycle events onto the audit
// stream. A nil publisher disables publishing entirely.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// AllocationEvent is the wire payload of a lifecycle event.
type AllocationEvent struct {
	AllocationID   string                 `json:"allocation_id"`
	VehicleID      string                 `json:"vehicle_id"`
	EmployeeID     string                 `json:"employee_id"`
	AllocationDate string                 `json:"allocation_date"`
	Status         model.AllocationStatus `json:"status"`
	OccurredAt     time.Time              `json:"occurred_at"`
}

// publishEvent emits a lifecycle event after a successful state change.
// Publishing is best effort: the allocation is already committed, so a
// broker failure is logged and swallowed rather than unwinding the
// request.
func (s *allocationService) publishEvent(ctx context.Context, eventType string, allocation *model.Allocation) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(allocation.VehicleID).
		WithValue(AllocationEvent{
			AllocationID:   allocation.ID,
			VehicleID:      allocation.VehicleID,
			EmployeeID:     allocation.EmployeeID,
			AllocationDate: allocation.AllocationDate.Format(model.DateLayout),
			Status:         allocation.Status,
			OccurredAt:     time.Now().UTC(),
		}).
		WithEventType(eventType).
		WithSource(eventSource).
		WithSchemaVersion(eventSchemaVersion).
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish allocation event",
			"event_type", eventType,
			"allocation_id", allocation.ID,
			"error", err,
		)
	}
}

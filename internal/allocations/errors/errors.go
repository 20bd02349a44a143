package errors

import "errors"

var (
	ErrNotFound = errors.New("allocation not found")

	ErrInvalidID = errors.New("invalid allocation ID format")

	// ErrVehicleDayTaken is returned when the store rejects an insert
	// because an active allocation already holds the (vehicle, date)
	// slot. The unique index makes this the losing side of a race.
	ErrVehicleDayTaken = errors.New("vehicle already allocated on this date")
)

package errors

import "errors"

var (
	ErrVehicleNotFound = errors.New("vehicle not found")

	ErrDriverNotFound = errors.New("driver not found")

	ErrEmployeeNotFound = errors.New("employee not found")

	ErrInvalidID = errors.New("invalid record ID format")

	ErrPlateTaken = errors.New("registration number already in use")

	ErrDriverAssigned = errors.New("driver already assigned to another vehicle")
)

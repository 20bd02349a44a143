package service

import (
	"time"

	"fleetalloc/internal/allocations/validator"
	apperrors "fleetalloc/pkg/errors"
)

// parseDay converts a wire-format date into canonical UTC midnight,
// mapping parse failures to the invalid date error kind.
func parseDay(value string) (time.Time, error) {
	day, err := validator.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.InvalidDate("Date must be in YYYY-MM-DD format")
	}
	return day, nil
}

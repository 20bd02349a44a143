package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AllocationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAllocationValidator(log *logger.Logger) *AllocationValidator {
	log.Info("Allocation validator initialized successfully")

	return &AllocationValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *AllocationValidator) ValidateAllocation(allocation *model.Allocation) error {
	return v.translate(v.validate.Struct(allocation))
}

func (v *AllocationValidator) ValidateUpdate(update *model.AllocationUpdate) error {
	return v.translate(v.validate.Struct(update))
}

// ValidateFilter rejects inverted date ranges; everything else on a
// filter is optional.
func (v *AllocationValidator) ValidateFilter(filter model.AllocationFilter) error {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return ValidationErrors{{
			Field:   "to",
			Message: "to must not be before from",
		}}
	}
	if filter.Status != "" && filter.Status != model.AllocationActive && filter.Status != model.AllocationCancelled {
		return ValidationErrors{{
			Field:   "status",
			Message: "status must be one of: active, cancelled",
		}}
	}
	return nil
}

// ParseDate parses a day-granular date in the wire format and rejects
// anything with a residual time component.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be a valid date in YYYY-MM-DD format")
	}
	return t, nil
}

func (v *AllocationValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", fieldErr.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), strings.ReplaceAll(fieldErr.Param(), " ", ", "))
		}

		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}

	return out
}

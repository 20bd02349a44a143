package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"github.com/go-playground/validator/v10"
)

var plateRegex = regexp.MustCompile(`^[A-Z0-9]{2,12}(?:-[A-Z0-9]{1,6})*$`)

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

type FleetValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFleetValidator(log *logger.Logger) *FleetValidator {
	v := validator.New()

	if err := v.RegisterValidation("plate", validatePlate); err != nil {
		log.Fatal("Failed to register 'plate' validator", "error", err)
	}

	log.Info("Fleet validator initialized successfully")

	return &FleetValidator{
		validate: v,
		logger:   log,
	}
}

func validatePlate(fl validator.FieldLevel) bool {
	return plateRegex.MatchString(fl.Field().String())
}

func (v *FleetValidator) ValidateVehicle(vehicle *model.Vehicle) error {
	return v.translate(v.validate.Struct(vehicle))
}

func (v *FleetValidator) ValidateVehicleUpdate(update *model.VehicleUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *FleetValidator) ValidateDriver(driver *model.Driver) error {
	return v.translate(v.validate.Struct(driver))
}

func (v *FleetValidator) ValidateEmployee(employee *model.Employee) error {
	return v.translate(v.validate.Struct(employee))
}

func (v *FleetValidator) ValidateEmployeeUpdate(update *model.EmployeeUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *FleetValidator) translate(err error) error {
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
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", fieldErr.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", fieldErr.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155550123)", fieldErr.Field())
		case "plate":
			message = fmt.Sprintf("%s must be a valid registration number (letters, digits, dashes)", fieldErr.Field())
		}

		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}

	return out
}

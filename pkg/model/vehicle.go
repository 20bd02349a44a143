package model

import "time"

type Vehicle struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Brand              string    `json:"brand" bson:"brand" validate:"required,min=1,max=60"`
	Model              string    `json:"model" bson:"model" validate:"required,min=1,max=60"`
	RegistrationNumber string    `json:"registration_number" bson:"registration_number" validate:"required,plate"`
	DriverID           string    `json:"driver_id,omitempty" bson:"driver_id,omitempty" validate:"omitempty,mongodb"`
	Active             bool      `json:"active" bson:"active"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type VehicleUpdate struct {
	Brand              string `json:"brand,omitempty" validate:"omitempty,min=1,max=60"`
	Model              string `json:"model,omitempty" validate:"omitempty,min=1,max=60"`
	RegistrationNumber string `json:"registration_number,omitempty" validate:"omitempty,plate"`
	DriverID           string `json:"driver_id,omitempty" validate:"omitempty,mongodb"`
	Active             *bool  `json:"active,omitempty"`
}

// Driver is the person behind the wheel; a driver may be assigned to at
// most one vehicle at a time.
type Driver struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	LicenseNumber string    `json:"license_number" bson:"license_number" validate:"required,min=2,max=40"`
	ContactNumber string    `json:"contact_number,omitempty" bson:"contact_number,omitempty" validate:"omitempty,e164"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

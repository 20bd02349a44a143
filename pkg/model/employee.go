package model

import "time"

type Employee struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Department string    `json:"department" bson:"department" validate:"required,min=2,max=60"`
	Email      string    `json:"email" bson:"email" validate:"required,email"`
	Active     bool      `json:"active" bson:"active"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type EmployeeUpdate struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Department string `json:"department,omitempty" validate:"omitempty,min=2,max=60"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Active     *bool  `json:"active,omitempty"`
}

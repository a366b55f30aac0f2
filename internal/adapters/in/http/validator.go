package http

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator plugs go-playground/validator into echo's Validate.
type CustomValidator struct {
	Validator *validator.Validate
}

// NewValidator enables required checks on nested structs.
func NewValidator() *CustomValidator {
	return &CustomValidator{Validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate runs the struct tags of i.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.Validator.Struct(i)
}

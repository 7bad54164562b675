package handler

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface. Request structs declare their constraints with `validate`
// tags; handlers translate failures into 400 responses.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the validator used by the Echo instance
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

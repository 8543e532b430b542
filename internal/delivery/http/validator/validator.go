// Package validator adapts go-playground/validator to echo.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Compile-time contract assertion.
var _ echo.Validator = (*requestValidator)(nil)

type requestValidator struct {
	validate *validator.Validate
}

// New returns the validator used by c.Validate.
func New() echo.Validator {
	return &requestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "harvest/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// RequestValidator validates bound request structs against their `validate` tags.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates the validator wired into the Echo server.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Violations surface as a 400 with the
// validator's field report in the details.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request/row struct and converts
// failures into a ValidationError the HTTP layer maps to 400.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return NewValidationError("field %s failed on %s", ve.Field(), ve.Tag())
	}
	return NewValidationError("%s", err.Error())
}

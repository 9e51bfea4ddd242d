// Package service implements the application's business logic on top of the
// store, search, and auth packages. Handlers stay thin; all validation and
// domain rules live here.
package service

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// formatValidationError converts validator errors to user-friendly domain errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		// Return first validation error as a domain error
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return apperrors.Validationf("%s is required", field)
			case "email":
				return apperrors.Validationf("%s must be a valid email address", field)
			case "min":
				return apperrors.Validationf("%s must be at least %s", field, e.Param())
			case "max":
				return apperrors.Validationf("%s must be at most %s", field, e.Param())
			case "gte":
				return apperrors.Validationf("%s must be at least %s", field, e.Param())
			default:
				return apperrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}

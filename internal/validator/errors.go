package validator

import (
	"github.com/SAP-F-2025/course-authoring-service/internal/errors"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}

func prefixed(prefix string, errs ValidationErrors) ValidationErrors {
	return errs.WithPrefix(prefix)
}

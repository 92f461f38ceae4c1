package errors

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a local validation failure. A Kind is itself an error so callers
// can match with errors.Is(err, errors.NoCorrectAnswer).
type Kind string

const (
	MissingField        Kind = "MissingField"
	InvalidURL          Kind = "InvalidUrl"
	EmptyQuiz           Kind = "EmptyQuiz"
	InsufficientOptions Kind = "InsufficientOptions"
	NoCorrectAnswer     Kind = "NoCorrectAnswer"
	TooManyCorrect      Kind = "TooManyCorrect"
	DuplicateKey        Kind = "DuplicateKey"
	InvalidValue        Kind = "InvalidValue"
)

func (k Kind) Error() string {
	return string(k)
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
	Kind    Kind        `json:"kind"`
	// Module is the index of the module the failure belongs to; nil for course-level fields.
	Module *int `json:"module,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i := range ve {
		errs[i] = &ve[i]
	}
	return errs
}

// ByModule groups failures by module index for inline display. Course-level
// failures are returned separately.
func (ve ValidationErrors) ByModule() (course ValidationErrors, modules map[int]ValidationErrors) {
	modules = make(map[int]ValidationErrors)
	for _, e := range ve {
		if e.Module == nil {
			course = append(course, e)
			continue
		}
		modules[*e.Module] = append(modules[*e.Module], e)
	}
	return course, modules
}

// ModuleIndexes returns the sorted indexes of modules that have at least one failure.
func (ve ValidationErrors) ModuleIndexes() []int {
	_, modules := ve.ByModule()
	indexes := make([]int, 0, len(modules))
	for i := range modules {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// InModule tags every failure with the module index it came from.
func (ve ValidationErrors) InModule(index int) ValidationErrors {
	out := make(ValidationErrors, len(ve))
	for i, e := range ve {
		idx := index
		e.Module = &idx
		out[i] = e
	}
	return out
}

// WithPrefix qualifies every field name with prefix, e.g. "quiz.".
func (ve ValidationErrors) WithPrefix(prefix string) ValidationErrors {
	out := make(ValidationErrors, len(ve))
	for i, e := range ve {
		e.Field = prefix + e.Field
		out[i] = e
	}
	return out
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

func (pe *ValidationError) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == pe.Kind
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Kind:    InvalidValue,
	}
}

// NewKindError creates a validation error of a specific kind
func NewKindError(kind Kind, field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Kind:    kind,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
		Kind:    InvalidValue,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if validatorErr, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validatorErr {
			kind := InvalidValue
			if err.Tag() == "required" {
				kind = MissingField
			}
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
				Kind:    kind,
			})
		}
	}

	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	// Custom validators
	case "course_level":
		return "must be Beginner, Intermediate, or Advanced"
	case "content_type":
		return "must be VIDEO or DOCUMENT"
	case "question_type":
		return "must be SINGLE_CORRECT or MULTIPLE_CORRECT"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}

package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct rules and the
// course content entity rules
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// isURL reports whether raw parses as an absolute URL.
func (v *Validator) isURL(raw string) bool {
	return v.structValidator.Var(raw, "url") == nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("course_level", validateCourseLevel)
	validate.RegisterValidation("content_type", validateContentType)
	validate.RegisterValidation("question_type", validateQuestionType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateCourseLevel(fl validator.FieldLevel) bool {
	validLevels := []models.CourseLevel{
		models.LevelBeginner,
		models.LevelIntermediate,
		models.LevelAdvanced,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateContentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.ContentVideo) || value == string(models.ContentDocument)
}

func validateQuestionType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.SingleCorrect) || value == string(models.MultipleCorrect)
}

package validator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/SAP-F-2025/course-authoring-service/internal/errors"
	"github.com/SAP-F-2025/course-authoring-service/internal/models"
)

var driveHosts = map[string]bool{"drive.google.com": true, "docs.google.com": true}

// IsDriveLink reports whether raw is a URL on a Google Drive host. Drive share
// links are accepted with or without a scheme.
func IsDriveLink(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	return driveHosts[strings.ToLower(u.Hostname())]
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func missing(field, label string) errors.ValidationError {
	return *errors.NewKindError(errors.MissingField, field, label+" is required", "")
}

// ValidateCourse checks the course's required fields.
func (v *Validator) ValidateCourse(course *models.Course) ValidationErrors {
	var errs ValidationErrors
	if blank(course.Title) {
		errs = append(errs, missing("title", "Course title"))
	}
	if blank(course.Description) {
		errs = append(errs, missing("description", "Course description"))
	}
	return errs
}

// ValidateModule checks the title and the content matching the module's content type.
func (v *Validator) ValidateModule(module *models.Module) ValidationErrors {
	var errs ValidationErrors
	if blank(module.Title) {
		errs = append(errs, missing("title", "Module title"))
	}

	switch content := module.Content.(type) {
	case models.VideoContent:
		switch {
		case blank(content.URL):
			errs = append(errs, missing("videoUrl", "Video URL"))
		case isExternal(content.Source) && !v.isURL(strings.TrimSpace(content.URL)) && !IsDriveLink(content.URL):
			errs = append(errs, *errors.NewKindError(errors.InvalidURL, "videoUrl",
				"Video URL must be a valid URL or Google Drive link", content.URL))
		}
	case models.DocumentContent:
		if blank(content.URL) {
			errs = append(errs, missing("documentUrl", "Document URL"))
		}
	default:
		errs = append(errs, missing("contentType", "Content type"))
	}
	return errs
}

func isExternal(source models.ContentSource) bool {
	return source == "" || source == models.SourceURL
}

// ValidateQuiz rejects a quiz without questions.
func (v *Validator) ValidateQuiz(quiz *models.Quiz) ValidationErrors {
	if len(quiz.Questions) == 0 {
		return ValidationErrors{*errors.NewKindError(errors.EmptyQuiz, "questions",
			"Quiz must have at least one question", 0)}
	}
	return nil
}

// ValidateQuestion requires at least two options and at least one correct answer.
func (v *Validator) ValidateQuestion(question *models.Question) ValidationErrors {
	var errs ValidationErrors
	if len(question.Options) < 2 {
		errs = append(errs, *errors.NewKindError(errors.InsufficientOptions, "options",
			"Question must have at least 2 options", len(question.Options)))
	}
	if question.CorrectCount() == 0 {
		errs = append(errs, *errors.NewKindError(errors.NoCorrectAnswer, "options",
			"Question must have at least one correct option", nil))
	}
	return errs
}

// ValidateAnswerKey checks the correct options against the question type: a
// single-answer question may not mark more than one option correct.
func (v *Validator) ValidateAnswerKey(question *models.Question) ValidationErrors {
	if question.QuestionType == models.SingleCorrect && question.CorrectCount() > 1 {
		return ValidationErrors{*errors.NewKindError(errors.TooManyCorrect, "options",
			"Single answer question must have exactly one correct option", question.CorrectCount())}
	}
	return nil
}

// duplicateKeys reports sibling keys used more than once. Empty keys are ignored.
func duplicateKeys(field string, keys []string) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(keys))
	for i, key := range keys {
		if key == "" {
			continue
		}
		if seen[key] {
			errs = append(errs, *errors.NewKindError(errors.DuplicateKey,
				fmt.Sprintf("%s[%d].key", field, i), "Key is already used by a sibling", key))
		}
		seen[key] = true
	}
	return errs
}

// ValidateDraft runs every entity rule and struct rule over the course tree.
// Module failures carry their module index so callers can show them inline.
func (v *Validator) ValidateDraft(course *models.Course) error {
	errs := v.ValidateCourse(course)
	errs = append(errs, v.structErrors("", course)...)

	moduleKeys := make([]string, len(course.Modules))
	for i, module := range course.Modules {
		moduleKeys[i] = module.Key
	}
	errs = append(errs, duplicateKeys("modules", moduleKeys)...)

	for i, module := range course.Modules {
		var moduleErrs ValidationErrors
		moduleErrs = append(moduleErrs, v.ValidateModule(module)...)
		moduleErrs = append(moduleErrs, v.structErrors("", module)...)

		if quiz := module.Quiz; quiz != nil {
			moduleErrs = append(moduleErrs, prefixed("quiz.", v.ValidateQuiz(quiz))...)
			questionKeys := make([]string, len(quiz.Questions))
			for j, question := range quiz.Questions {
				questionKeys[j] = question.Key
			}
			moduleErrs = append(moduleErrs, duplicateKeys("quiz.questions", questionKeys)...)
			for j, question := range quiz.Questions {
				prefix := fmt.Sprintf("quiz.questions[%d].", j)
				if blank(question.QuestionText) {
					moduleErrs = append(moduleErrs, prefixed(prefix, ValidationErrors{missing("questionText", "Question text")})...)
				}
				moduleErrs = append(moduleErrs, prefixed(prefix, v.ValidateQuestion(question))...)
				moduleErrs = append(moduleErrs, prefixed(prefix, v.ValidateAnswerKey(question))...)
				optionKeys := make([]string, len(question.Options))
				for k, option := range question.Options {
					optionKeys[k] = option.Key
				}
				moduleErrs = append(moduleErrs, prefixed(prefix, duplicateKeys("options", optionKeys))...)
				moduleErrs = append(moduleErrs, v.structErrors(prefix, question)...)
			}
		}

		errs = append(errs, moduleErrs.InModule(i)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) structErrors(prefix string, s interface{}) ValidationErrors {
	if err := v.ValidateStruct(s); err != nil {
		return prefixed(prefix, ToValidationErrors(err))
	}
	return nil
}

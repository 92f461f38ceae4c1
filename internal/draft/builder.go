// Package draft turns the flat, editor-shaped course form into the nested course
// tree and API payload, and back.
package draft

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/course-authoring-service/internal/errors"
	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
)

const defaultPoints = 1

// Builder is stateless; the same form always produces the same output.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build converts the form into the aggregated create payload.
func (b *Builder) Build(form *models.CourseForm) (models.CoursePayload, error) {
	course, err := b.BuildCourse(form)
	if err != nil {
		return models.CoursePayload{}, err
	}
	return models.NewCoursePayload(course), nil
}

// BuildCourse converts the form into the course tree. Ids carried by the form are
// kept so an edited course can be synced entity by entity.
func (b *Builder) BuildCourse(form *models.CourseForm) (*models.Course, error) {
	course := &models.Course{
		ID:               form.ID,
		Title:            form.Title,
		Description:      form.Description,
		Instructor:       form.Instructor,
		Price:            form.Price,
		Duration:         form.Duration,
		Level:            form.Level,
		Category:         form.Category,
		WhatYouWillLearn: StripBlank(form.WhatYouWillLearn),
		Requirements:     StripBlank(form.Requirements),
		TargetAudience:   StripBlank(form.TargetAudience),
		Modules:          make([]*models.Module, 0, len(form.Modules)),
	}

	for i := range form.Modules {
		module, err := b.buildModule(&form.Modules[i])
		if err != nil {
			return nil, errors.ValidationErrors{*err}.InModule(i)
		}
		module.CourseID = form.ID
		course.Modules = ordering.Append(course.Modules, module)
	}
	return course, nil
}

func (b *Builder) buildModule(form *models.ModuleForm) (*models.Module, *errors.ValidationError) {
	module := &models.Module{
		ID:            form.ID,
		Key:           strings.TrimSpace(form.Key),
		Title:         form.Title,
		Description:   form.Description,
		TheoryContent: form.TheoryContent,
	}

	switch form.ContentType {
	case models.ContentVideo:
		source, err := uploadSource(form.VideoType)
		if err != nil {
			return nil, err
		}
		module.SetVideo(strings.TrimSpace(form.VideoURL), source)
	case models.ContentDocument:
		source, err := uploadSource(form.DocumentType)
		if err != nil {
			return nil, err
		}
		module.SetDocument(strings.TrimSpace(form.DocumentURL), source)
	case "":
		// left empty; the validator reports it
	default:
		return nil, errors.NewValidationErrorWithRule("contentType", "must be VIDEO or DOCUMENT", "content_type", form.ContentType)
	}

	if form.Quiz != nil {
		quiz, err := b.buildQuiz(form.Quiz, form.Title)
		if err != nil {
			return nil, err
		}
		quiz.ModuleID = form.ID
		module.Quiz = quiz
	}
	return module, nil
}

func (b *Builder) buildQuiz(form *models.QuizForm, moduleTitle string) (*models.Quiz, *errors.ValidationError) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		title = DefaultQuizTitle(moduleTitle)
	}

	quiz := &models.Quiz{
		ID:           form.ID,
		Title:        title,
		PassingScore: form.PassingScore,
		TimeLimit:    form.TimeLimit,
		Questions:    make([]*models.Question, 0, len(form.Questions)),
	}

	for i, qf := range form.Questions {
		questionType, err := models.ParseQuestionType(qf.QuestionType)
		if err != nil {
			return nil, errors.NewValidationErrorWithRule(
				fmt.Sprintf("quiz.questions[%d].questionType", i), err.Error(), "question_type", qf.QuestionType)
		}

		points := qf.Points
		if points == 0 {
			points = defaultPoints
		}

		question := &models.Question{
			ID:           qf.ID,
			Key:          strings.TrimSpace(qf.Key),
			QuizID:       form.ID,
			QuestionText: qf.QuestionText,
			QuestionType: questionType,
			Points:       points,
			Options:      make([]*models.Option, 0, len(qf.Options)),
		}
		for _, of := range qf.Options {
			question.Options = ordering.Append(question.Options, &models.Option{
				ID:         of.ID,
				Key:        strings.TrimSpace(of.Key),
				QuestionID: qf.ID,
				OptionText: of.OptionText,
				IsCorrect:  of.IsCorrect,
			})
		}
		quiz.Questions = ordering.Append(quiz.Questions, question)
	}
	return quiz, nil
}

// StripBlank drops empty and whitespace-only entries and trims the rest.
func StripBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// MapUploadType maps the editor's source picker to the persisted source.
func MapUploadType(t models.UploadType) (models.ContentSource, error) {
	source, err := uploadSource(t)
	if err != nil {
		return "", err
	}
	return source, nil
}

func uploadSource(t models.UploadType) (models.ContentSource, *errors.ValidationError) {
	switch t {
	case models.UploadTypeURL, "":
		return models.SourceURL, nil
	case models.UploadTypeDrive:
		return models.SourceDrive, nil
	case models.UploadTypeFile:
		return models.SourceLocal, nil
	default:
		return "", errors.NewValidationErrorWithRule("source", "must be URL, DRIVE or UPLOAD", "oneof", t)
	}
}

func uploadTypeFor(source models.ContentSource) models.UploadType {
	switch source {
	case models.SourceDrive:
		return models.UploadTypeDrive
	case models.SourceLocal:
		return models.UploadTypeFile
	default:
		return models.UploadTypeURL
	}
}

// DefaultQuizTitle is used when a quiz is saved without a title.
func DefaultQuizTitle(moduleTitle string) string {
	return fmt.Sprintf("%s Quiz", strings.TrimSpace(moduleTitle))
}

package validator

import (
	stderrors "errors"
	"testing"

	"github.com/SAP-F-2025/course-authoring-service/internal/errors"
	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(errs ValidationErrors) []errors.Kind {
	out := make([]errors.Kind, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Kind)
	}
	return out
}

func videoModule(url string, source models.ContentSource) *models.Module {
	m := &models.Module{Title: "Intro", Order: 1}
	m.SetVideo(url, source)
	return m
}

func validQuestion() *models.Question {
	return &models.Question{
		QuestionText: "2 + 2?",
		QuestionType: models.SingleCorrect,
		Points:       1,
		Order:        1,
		Options: []*models.Option{
			{OptionText: "4", IsCorrect: true, Order: 1},
			{OptionText: "5", Order: 2},
		},
	}
}

func TestValidateCourse(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		course *models.Course
		want   []errors.Kind
	}{
		{"valid", &models.Course{Title: "Go", Description: "Learn Go"}, []errors.Kind{}},
		{"blank title", &models.Course{Title: "   ", Description: "Learn Go"}, []errors.Kind{errors.MissingField}},
		{"missing both", &models.Course{}, []errors.Kind{errors.MissingField, errors.MissingField}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(v.ValidateCourse(tt.course)))
		})
	}
}

func TestValidateModule(t *testing.T) {
	v := New()

	document := &models.Module{Title: "Notes"}
	document.SetDocument("", models.SourceDrive)

	tests := []struct {
		name   string
		module *models.Module
		want   []errors.Kind
	}{
		{"external video url", videoModule("https://www.youtube.com/watch?v=abc", models.SourceURL), []errors.Kind{}},
		{"empty video url", videoModule("", models.SourceURL), []errors.Kind{errors.MissingField}},
		{"whitespace video url", videoModule("  ", models.SourceURL), []errors.Kind{errors.MissingField}},
		{"unparsable video url", videoModule("not a url", models.SourceURL), []errors.Kind{errors.InvalidURL}},
		{"url without scheme", videoModule("youtube.com/watch?v=abc", ""), []errors.Kind{errors.InvalidURL}},
		{"drive link without scheme", videoModule("drive.google.com/file/d/abc/view", models.SourceURL), []errors.Kind{}},
		{"drive source", videoModule("shared-file-id", models.SourceDrive), []errors.Kind{}},
		{"uploaded video", videoModule("uploads/intro.mp4", models.SourceLocal), []errors.Kind{}},
		{"empty document url", document, []errors.Kind{errors.MissingField}},
		{"no content", &models.Module{Title: "Empty"}, []errors.Kind{errors.MissingField}},
		{"missing title", &models.Module{Content: models.DocumentContent{URL: "https://example.com/a.pdf"}}, []errors.Kind{errors.MissingField}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(v.ValidateModule(tt.module)))
		})
	}
}

func TestValidateQuiz(t *testing.T) {
	v := New()

	errs := v.ValidateQuiz(&models.Quiz{Title: "Check"})
	require.Len(t, errs, 1)
	assert.Equal(t, errors.EmptyQuiz, errs[0].Kind)

	assert.Empty(t, v.ValidateQuiz(&models.Quiz{Questions: []*models.Question{validQuestion()}}))
}

func TestValidateQuestion(t *testing.T) {
	v := New()

	noneCorrect := validQuestion()
	noneCorrect.Options[0].IsCorrect = false

	single := validQuestion()
	single.Options = single.Options[:1]

	empty := validQuestion()
	empty.Options = nil

	tests := []struct {
		name     string
		question *models.Question
		want     []errors.Kind
	}{
		{"valid", validQuestion(), []errors.Kind{}},
		{"no correct answer", noneCorrect, []errors.Kind{errors.NoCorrectAnswer}},
		{"one option", single, []errors.Kind{errors.InsufficientOptions}},
		{"no options", empty, []errors.Kind{errors.InsufficientOptions, errors.NoCorrectAnswer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(v.ValidateQuestion(tt.question)))
		})
	}
}

func TestValidateAnswerKey(t *testing.T) {
	v := New()

	twoCorrect := validQuestion()
	twoCorrect.Options[1].IsCorrect = true

	multiple := validQuestion()
	multiple.QuestionType = models.MultipleCorrect
	multiple.Options[1].IsCorrect = true

	tests := []struct {
		name     string
		question *models.Question
		want     []errors.Kind
	}{
		{"single answer", validQuestion(), []errors.Kind{}},
		{"single answer marked twice", twoCorrect, []errors.Kind{errors.TooManyCorrect}},
		{"multiple answers", multiple, []errors.Kind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(v.ValidateAnswerKey(tt.question)))
		})
	}

	// the option count and correct answer rule is unaffected by the question type
	assert.Empty(t, v.ValidateQuestion(twoCorrect))
}

func TestValidateDraft(t *testing.T) {
	v := New()

	t.Run("valid draft", func(t *testing.T) {
		course := &models.Course{
			Title:       "Go",
			Description: "Learn Go",
			Level:       models.LevelBeginner,
			Modules: []*models.Module{
				videoModule("https://example.com/v.mp4", models.SourceURL),
			},
		}
		course.Modules[0].Quiz = &models.Quiz{Title: "Quiz", PassingScore: 70, Questions: []*models.Question{validQuestion()}}

		assert.NoError(t, v.ValidateDraft(course))
	})

	t.Run("failures grouped per module", func(t *testing.T) {
		broken := videoModule("", models.SourceURL)
		broken.Order = 2
		badQuestion := validQuestion()
		badQuestion.Options[0].IsCorrect = false
		badQuestion.Points = 0
		third := videoModule("https://example.com/v.mp4", models.SourceURL)
		third.Order = 3
		third.Quiz = &models.Quiz{Title: "Quiz", PassingScore: 50, Questions: []*models.Question{badQuestion}}

		course := &models.Course{
			Title:       "Go",
			Description: "Learn Go",
			Level:       "Expert",
			Modules: []*models.Module{
				videoModule("https://example.com/v.mp4", models.SourceURL),
				broken,
				third,
			},
		}

		err := v.ValidateDraft(course)
		require.Error(t, err)

		var errs ValidationErrors
		require.True(t, stderrors.As(err, &errs))
		assert.True(t, stderrors.Is(err, errors.NoCorrectAnswer))
		assert.Equal(t, []int{1, 2}, errs.ModuleIndexes())

		courseErrs, modules := errs.ByModule()
		require.Len(t, courseErrs, 1)
		assert.Equal(t, "course_level", courseErrs[0].Rule)

		assert.Equal(t, []errors.Kind{errors.MissingField}, kinds(modules[1]))

		var fields []string
		for _, e := range modules[2] {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "quiz.questions[0].options")
		assert.Contains(t, fields, "quiz.questions[0].points")
	})

	t.Run("single answer question with two correct options", func(t *testing.T) {
		question := validQuestion()
		question.Options[1].IsCorrect = true
		module := videoModule("https://example.com/v.mp4", models.SourceURL)
		module.Quiz = &models.Quiz{Title: "Quiz", PassingScore: 50, Questions: []*models.Question{question}}
		course := &models.Course{Title: "Go", Description: "Learn Go", Level: models.LevelBeginner, Modules: []*models.Module{module}}

		err := v.ValidateDraft(course)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.TooManyCorrect))

		var errs ValidationErrors
		require.True(t, stderrors.As(err, &errs))
		require.Len(t, errs, 1)
		assert.Equal(t, "quiz.questions[0].options", errs[0].Field)
		require.NotNil(t, errs[0].Module)
		assert.Equal(t, 0, *errs[0].Module)
	})

	t.Run("duplicate sibling keys", func(t *testing.T) {
		first := videoModule("https://example.com/a.mp4", models.SourceURL)
		first.Key = "intro"
		second := videoModule("https://example.com/b.mp4", models.SourceURL)
		second.Key = "intro"
		second.Order = 2
		question := validQuestion()
		question.Options[0].Key = "a"
		question.Options[1].Key = "a"
		second.Quiz = &models.Quiz{Title: "Quiz", PassingScore: 50, Questions: []*models.Question{question}}
		course := &models.Course{Title: "Go", Description: "Learn Go", Level: models.LevelBeginner, Modules: []*models.Module{first, second}}

		err := v.ValidateDraft(course)
		require.Error(t, err)

		var errs ValidationErrors
		require.True(t, stderrors.As(err, &errs))
		courseErrs, modules := errs.ByModule()
		require.Len(t, courseErrs, 1)
		assert.Equal(t, errors.DuplicateKey, courseErrs[0].Kind)
		assert.Equal(t, "modules[1].key", courseErrs[0].Field)
		require.Len(t, modules[1], 1)
		assert.Equal(t, "quiz.questions[0].options[1].key", modules[1][0].Field)
	})
}

func TestIsDriveLink(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"https://drive.google.com/file/d/abc/view", true},
		{"DOCS.GOOGLE.COM/document/d/abc", true},
		{"http://drive.google.com/open?id=abc", true},
		{"https://example.com/drive", false},
		{"foo drive.google.com/x", false},
		{"https://drive.google.com.example.com/x", false},
		{"ftp://drive.google.com/x", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDriveLink(tt.raw))
		})
	}
}

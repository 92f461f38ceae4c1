package draft

import (
	"encoding/json"
	"testing"

	"github.com/SAP-F-2025/course-authoring-service/internal/errors"
	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForm() *models.CourseForm {
	limit := 15
	return &models.CourseForm{
		Title:            "Go for Backend Engineers",
		Description:      "Services, storage, concurrency",
		Instructor:       "R. Pike",
		Price:            49.5,
		Duration:         "6 weeks",
		Level:            models.LevelIntermediate,
		Category:         "Programming",
		WhatYouWillLearn: []string{"Goroutines", "", "  ", " Channels "},
		Requirements:     []string{"", "Basic programming"},
		TargetAudience:   []string{"Backend developers", "\t"},
		Modules: []models.ModuleForm{
			{
				Title:       "Welcome",
				ContentType: models.ContentVideo,
				VideoType:   models.UploadTypeFile,
				VideoURL:    "uploads/welcome.mp4",
			},
			{
				Title:        "Reading",
				ContentType:  models.ContentDocument,
				DocumentType: models.UploadTypeDrive,
				DocumentURL:  "https://drive.google.com/file/d/abc/view",
				Quiz: &models.QuizForm{
					PassingScore: 70,
					TimeLimit:    &limit,
					Questions: []models.QuestionForm{
						{
							QuestionText: "Is Go compiled?",
							QuestionType: "TRUE_FALSE",
							Options: []models.OptionForm{
								{OptionText: "Yes", IsCorrect: true},
								{OptionText: "No"},
							},
						},
						{
							QuestionText: "Pick the keywords",
							QuestionType: "MULTIPLE_CORRECT",
							Points:       3,
							Options: []models.OptionForm{
								{OptionText: "go", IsCorrect: true},
								{OptionText: "defer", IsCorrect: true},
								{OptionText: "yield"},
							},
						},
					},
				},
			},
		},
	}
}

func TestBuild_StripsBlankListEntries(t *testing.T) {
	payload, err := NewBuilder().Build(sampleForm())
	require.NoError(t, err)

	assert.Equal(t, []string{"Goroutines", "Channels"}, payload.WhatYouWillLearn)
	assert.Equal(t, []string{"Basic programming"}, payload.Requirements)
	assert.Equal(t, []string{"Backend developers"}, payload.TargetAudience)

	for _, s := range append(payload.WhatYouWillLearn, payload.Requirements...) {
		assert.NotEmpty(t, s)
	}
}

func TestBuild_EmptyListsSerializeAsArrays(t *testing.T) {
	form := sampleForm()
	form.Requirements = []string{"", " "}
	form.WhatYouWillLearn = nil

	payload, err := NewBuilder().Build(form)
	require.NoError(t, err)

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"requirements":[]`)
	assert.Contains(t, string(body), `"whatYouWillLearn":[]`)
}

func TestBuild_MapsSourcesAndDefaultsQuizTitle(t *testing.T) {
	payload, err := NewBuilder().Build(sampleForm())
	require.NoError(t, err)
	require.Len(t, payload.Modules, 2)

	welcome := payload.Modules[0]
	assert.Equal(t, 1, welcome.Order)
	assert.Equal(t, models.ContentVideo, welcome.ContentType)
	assert.Equal(t, models.SourceLocal, welcome.VideoSource)
	assert.Empty(t, welcome.DocumentURL)
	assert.Nil(t, welcome.Quiz)

	reading := payload.Modules[1]
	assert.Equal(t, 2, reading.Order)
	assert.Equal(t, models.SourceDrive, reading.DocumentSource)
	assert.Empty(t, reading.VideoURL)
	require.NotNil(t, reading.Quiz)
	assert.Equal(t, "Reading Quiz", reading.Quiz.Title)
	assert.Equal(t, 15, *reading.Quiz.TimeLimit)

	require.Len(t, reading.Quiz.Questions, 2)
	first := reading.Quiz.Questions[0]
	assert.Equal(t, models.SingleCorrect, first.QuestionType)
	assert.Equal(t, 1, first.Points)
	assert.Equal(t, 1, first.Order)

	second := reading.Quiz.Questions[1]
	assert.Equal(t, models.MultipleCorrect, second.QuestionType)
	assert.Equal(t, 2, second.Order)
	require.Len(t, second.Options, 3)
	for i, o := range second.Options {
		assert.Equal(t, i+1, o.Order)
	}
}

func TestBuild_IsDeterministic(t *testing.T) {
	b := NewBuilder()

	first, err := b.Build(sampleForm())
	require.NoError(t, err)
	second, err := b.Build(sampleForm())
	require.NoError(t, err)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestBuild_RejectsUnknownEnums(t *testing.T) {
	form := sampleForm()
	form.Modules[0].VideoType = "FTP"
	_, err := NewBuilder().Build(form)
	assert.Error(t, err)

	form = sampleForm()
	form.Modules[1].Quiz.Questions[0].QuestionType = "ESSAY"
	_, err = NewBuilder().Build(form)
	assert.Error(t, err)

	form = sampleForm()
	form.Modules[0].ContentType = "AUDIO"
	_, err = NewBuilder().Build(form)
	assert.Error(t, err)
}

func TestMapUploadType(t *testing.T) {
	tests := []struct {
		in   models.UploadType
		want models.ContentSource
	}{
		{models.UploadTypeURL, models.SourceURL},
		{models.UploadTypeDrive, models.SourceDrive},
		{models.UploadTypeFile, models.SourceLocal},
		{"", models.SourceURL},
	}
	for _, tt := range tests {
		got, err := MapUploadType(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormFromCourse_RebuildsSameCourse(t *testing.T) {
	b := NewBuilder()
	form := sampleForm()
	form.ID = 7
	form.Modules[1].ID = 21
	form.Modules[1].Quiz.ID = 30

	course, err := b.BuildCourse(form)
	require.NoError(t, err)

	rebuilt, err := b.BuildCourse(FormFromCourse(course))
	require.NoError(t, err)

	assert.Equal(t, course, rebuilt)
	assert.Equal(t, models.UploadTypeFile, FormFromCourse(course).Modules[0].VideoType)
}

func TestBuildCourse_TagsEnumFailureWithModule(t *testing.T) {
	form := sampleForm()
	form.Modules[1].Quiz.Questions[0].QuestionType = "ESSAY"

	_, err := NewBuilder().BuildCourse(form)
	require.Error(t, err)

	var errs errors.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	require.NotNil(t, errs[0].Module)
	assert.Equal(t, 1, *errs[0].Module)
	assert.Equal(t, "quiz.questions[0].questionType", errs[0].Field)
}

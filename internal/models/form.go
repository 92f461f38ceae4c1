package models

// UploadType is the source picker shown in the module editor.
type UploadType string

const (
	UploadTypeURL   UploadType = "URL"
	UploadTypeDrive UploadType = "DRIVE"
	UploadTypeFile  UploadType = "UPLOAD"
)

// CourseForm is the flat, editor-shaped draft of a course. It is what the admin UI
// saves between steps and may be discarded without ever reaching the API.
type CourseForm struct {
	ID               uint         `json:"id,omitempty"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Instructor       string       `json:"instructor"`
	Price            float64      `json:"price"`
	Duration         string       `json:"duration"`
	Level            CourseLevel  `json:"level"`
	Category         string       `json:"category"`
	WhatYouWillLearn []string     `json:"whatYouWillLearn"`
	Requirements     []string     `json:"requirements"`
	TargetAudience   []string     `json:"targetAudience"`
	Modules          []ModuleForm `json:"modules"`
}

// Key identifies an entity in the editor before the server assigns it an id.
// Keys must be unique among siblings and stay the same across retries, so a
// sync that stopped part way can find what it already created.
type ModuleForm struct {
	ID            uint        `json:"id,omitempty"`
	Key           string      `json:"key,omitempty"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ContentType   ContentType `json:"contentType"`
	VideoType     UploadType  `json:"videoType"`
	VideoURL      string      `json:"videoUrl"`
	DocumentType  UploadType  `json:"documentType"`
	DocumentURL   string      `json:"documentUrl"`
	TheoryContent string      `json:"theoryContent"`
	Quiz          *QuizForm   `json:"quiz,omitempty"`
}

type QuizForm struct {
	ID           uint           `json:"id,omitempty"`
	Title        string         `json:"title"`
	PassingScore int            `json:"passingScore"`
	TimeLimit    *int           `json:"timeLimit,omitempty"`
	Questions    []QuestionForm `json:"questions"`
}

type QuestionForm struct {
	ID           uint         `json:"id,omitempty"`
	Key          string       `json:"key,omitempty"`
	QuestionText string       `json:"questionText"`
	QuestionType string       `json:"questionType"`
	Points       int          `json:"points"`
	Options      []OptionForm `json:"options"`
}

type OptionForm struct {
	ID         uint   `json:"id,omitempty"`
	Key        string `json:"key,omitempty"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

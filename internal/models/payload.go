package models

// Payloads are the request bodies the remote API accepts. Create calls send the
// nested form; update calls send a single entity with its children left out.

type CoursePayload struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Instructor       string          `json:"instructor,omitempty"`
	Price            float64         `json:"price"`
	Duration         string          `json:"duration,omitempty"`
	Level            CourseLevel     `json:"level,omitempty"`
	Category         string          `json:"category,omitempty"`
	WhatYouWillLearn []string        `json:"whatYouWillLearn"`
	Requirements     []string        `json:"requirements"`
	TargetAudience   []string        `json:"targetAudience"`
	Modules          []ModulePayload `json:"modules,omitempty"`
}

type ModulePayload struct {
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Order          int           `json:"order"`
	ContentType    ContentType   `json:"contentType"`
	VideoURL       string        `json:"videoUrl,omitempty"`
	VideoSource    ContentSource `json:"videoSource,omitempty"`
	DocumentURL    string        `json:"documentUrl,omitempty"`
	DocumentSource ContentSource `json:"documentSource,omitempty"`
	TheoryContent  string        `json:"theoryContent,omitempty"`
	Quiz           *QuizPayload  `json:"quiz,omitempty"`
}

type QuizPayload struct {
	Title        string            `json:"title"`
	PassingScore int               `json:"passingScore"`
	TimeLimit    *int              `json:"timeLimit,omitempty"`
	Questions    []QuestionPayload `json:"questions,omitempty"`
}

type QuestionPayload struct {
	QuestionText string          `json:"questionText"`
	QuestionType QuestionType    `json:"questionType"`
	Points       int             `json:"points"`
	Order        int             `json:"order"`
	Options      []OptionPayload `json:"options,omitempty"`
}

type OptionPayload struct {
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      int    `json:"order"`
}

// OrderPayload is the partial update sent when only a sibling position changes.
type OrderPayload struct {
	Order int `json:"order"`
}

// NewCoursePayload builds the aggregated create payload for a whole course.
func NewCoursePayload(c *Course) CoursePayload {
	p := NewCourseFieldsPayload(c)
	p.Modules = make([]ModulePayload, 0, len(c.Modules))
	for _, m := range c.Modules {
		mp := NewModuleFieldsPayload(m)
		if m.Quiz != nil {
			qp := NewQuizPayload(m.Quiz, true)
			mp.Quiz = &qp
		}
		p.Modules = append(p.Modules, mp)
	}
	return p
}

// NewCourseFieldsPayload covers the course's own fields only.
func NewCourseFieldsPayload(c *Course) CoursePayload {
	return CoursePayload{
		Title:            c.Title,
		Description:      c.Description,
		Instructor:       c.Instructor,
		Price:            c.Price,
		Duration:         c.Duration,
		Level:            c.Level,
		Category:         c.Category,
		WhatYouWillLearn: nonNil(c.WhatYouWillLearn),
		Requirements:     nonNil(c.Requirements),
		TargetAudience:   nonNil(c.TargetAudience),
	}
}

// NewModuleFieldsPayload covers the module's own fields, without its quiz.
func NewModuleFieldsPayload(m *Module) ModulePayload {
	p := ModulePayload{
		Title:         m.Title,
		Description:   m.Description,
		Order:         m.Order,
		TheoryContent: m.TheoryContent,
	}
	switch c := m.Content.(type) {
	case VideoContent:
		p.ContentType = ContentVideo
		p.VideoURL = c.URL
		p.VideoSource = c.Source
	case DocumentContent:
		p.ContentType = ContentDocument
		p.DocumentURL = c.URL
		p.DocumentSource = c.Source
	}
	return p
}

func NewQuizPayload(q *Quiz, nested bool) QuizPayload {
	p := QuizPayload{
		Title:        q.Title,
		PassingScore: q.PassingScore,
		TimeLimit:    q.TimeLimit,
	}
	if nested {
		for _, question := range q.Questions {
			p.Questions = append(p.Questions, NewQuestionPayload(question, true))
		}
	}
	return p
}

func NewQuestionPayload(q *Question, nested bool) QuestionPayload {
	p := QuestionPayload{
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Points:       q.Points,
		Order:        q.Order,
	}
	if nested {
		for _, o := range q.Options {
			p.Options = append(p.Options, NewOptionPayload(o))
		}
	}
	return p
}

func NewOptionPayload(o *Option) OptionPayload {
	return OptionPayload{
		OptionText: o.OptionText,
		IsCorrect:  o.IsCorrect,
		Order:      o.Order,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

package models

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	SingleCorrect   QuestionType = "SINGLE_CORRECT"
	MultipleCorrect QuestionType = "MULTIPLE_CORRECT"
)

// ParseQuestionType normalizes the question type names seen across authoring flows.
// MULTIPLE_CHOICE and TRUE_FALSE are single-answer questions.
func ParseQuestionType(raw string) (QuestionType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "SINGLE_CORRECT", "MULTIPLE_CHOICE", "TRUE_FALSE":
		return SingleCorrect, nil
	case "MULTIPLE_CORRECT":
		return MultipleCorrect, nil
	default:
		return "", fmt.Errorf("unknown question type %q", raw)
	}
}

// Quiz is attached 1:1 to a module.
type Quiz struct {
	ID           uint        `json:"id,omitempty"`
	ModuleID     uint        `json:"moduleId,omitempty"`
	Title        string      `json:"title"`
	PassingScore int         `json:"passingScore" validate:"min=0,max=100"`
	TimeLimit    *int        `json:"timeLimit,omitempty" validate:"omitempty,min=1"` // minutes
	Questions    []*Question `json:"questions,omitempty"`
}

type Question struct {
	ID           uint         `json:"id,omitempty"`
	Key          string       `json:"key,omitempty"`
	QuizID       uint         `json:"quizId,omitempty"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType" validate:"question_type"`
	Points       int          `json:"points" validate:"min=1"`
	Order        int          `json:"order"`
	Options      []*Option    `json:"options,omitempty"`
}

func (q *Question) GetID() uint        { return q.ID }
func (q *Question) GetOrder() int      { return q.Order }
func (q *Question) SetOrder(order int) { q.Order = order }

// CorrectCount returns how many options are marked correct.
func (q *Question) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

type Option struct {
	ID         uint   `json:"id,omitempty"`
	Key        string `json:"key,omitempty"`
	QuestionID uint   `json:"questionId,omitempty"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      int    `json:"order"`
}

func (o *Option) GetID() uint        { return o.ID }
func (o *Option) GetOrder() int      { return o.Order }
func (o *Option) SetOrder(order int) { o.Order = order }

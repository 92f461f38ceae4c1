package client

import (
	"context"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
)

type siblings[T ordering.Sequenced] struct {
	update func(ctx context.Context, id uint, order int) error
	list   func(ctx context.Context) ([]T, error)
}

func (s siblings[T]) UpdateOrder(ctx context.Context, item T, order int) error {
	return s.update(ctx, item.GetID(), order)
}

func (s siblings[T]) List(ctx context.Context) ([]T, error) {
	return s.list(ctx)
}

// ModuleSiblings persists module positions within a course.
func (c *Client) ModuleSiblings(courseID uint) ordering.SiblingStore[*models.Module] {
	return siblings[*models.Module]{
		update: c.UpdateModuleOrder,
		list: func(ctx context.Context) ([]*models.Module, error) {
			return c.ListModules(ctx, courseID)
		},
	}
}

// QuestionSiblings persists question positions within a quiz.
func (c *Client) QuestionSiblings(quizID uint) ordering.SiblingStore[*models.Question] {
	return siblings[*models.Question]{
		update: c.UpdateQuestionOrder,
		list: func(ctx context.Context) ([]*models.Question, error) {
			return c.ListQuestions(ctx, quizID)
		},
	}
}

// OptionSiblings persists option positions within a question.
func (c *Client) OptionSiblings(questionID uint) ordering.SiblingStore[*models.Option] {
	return siblings[*models.Option]{
		update: c.UpdateOptionOrder,
		list: func(ctx context.Context) ([]*models.Option, error) {
			return c.ListOptions(ctx, questionID)
		},
	}
}

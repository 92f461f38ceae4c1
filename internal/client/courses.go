package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
)

// ===== COURSES =====

// CreateCourse creates the course with all of its modules, quizzes, questions and
// options in a single call.
func (c *Client) CreateCourse(ctx context.Context, payload models.CoursePayload) (*models.Course, error) {
	var course models.Course
	if err := c.send(ctx, resty.MethodPost, "/courses", payload, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetCourse fetches a course tree with every sibling list in display order.
func (c *Client) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.get(ctx, fmt.Sprintf("/courses/%d", id), &course); err != nil {
		return nil, err
	}
	sortTree(&course)
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id uint, payload models.CoursePayload) error {
	return c.send(ctx, resty.MethodPut, fmt.Sprintf("/courses/%d", id), payload, nil)
}

// ===== MODULES =====

func (c *Client) ListModules(ctx context.Context, courseID uint) ([]*models.Module, error) {
	return list[*models.Module](ctx, c, fmt.Sprintf("/courses/%d/modules", courseID))
}

func (c *Client) CreateModule(ctx context.Context, courseID uint, payload models.ModulePayload) (*models.Module, error) {
	var module models.Module
	if err := c.send(ctx, resty.MethodPost, fmt.Sprintf("/courses/%d/modules", courseID), payload, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

func (c *Client) UpdateModule(ctx context.Context, id uint, payload models.ModulePayload) error {
	return c.send(ctx, resty.MethodPut, moduleURL(id), payload, nil)
}

func (c *Client) UpdateModuleOrder(ctx context.Context, id uint, order int) error {
	return c.send(ctx, resty.MethodPut, moduleURL(id), models.OrderPayload{Order: order}, nil)
}

func (c *Client) DeleteModule(ctx context.Context, id uint) error {
	return c.send(ctx, resty.MethodDelete, moduleURL(id), nil, nil)
}

func moduleURL(id uint) string {
	return fmt.Sprintf("/courses/modules/%d", id)
}

// ===== QUIZZES =====

func (c *Client) CreateQuiz(ctx context.Context, moduleID uint, payload models.QuizPayload) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := c.send(ctx, resty.MethodPost, fmt.Sprintf("/courses/modules/%d/quiz", moduleID), payload, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, id uint, payload models.QuizPayload) error {
	return c.send(ctx, resty.MethodPut, fmt.Sprintf("/quizzes/%d", id), payload, nil)
}

// ===== QUESTIONS =====

func (c *Client) ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) {
	return list[*models.Question](ctx, c, fmt.Sprintf("/quizzes/%d/questions", quizID))
}

func (c *Client) CreateQuestion(ctx context.Context, quizID uint, payload models.QuestionPayload) (*models.Question, error) {
	var question models.Question
	if err := c.send(ctx, resty.MethodPost, fmt.Sprintf("/quizzes/%d/questions", quizID), payload, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id uint, payload models.QuestionPayload) error {
	return c.send(ctx, resty.MethodPut, questionURL(id), payload, nil)
}

func (c *Client) UpdateQuestionOrder(ctx context.Context, id uint, order int) error {
	return c.send(ctx, resty.MethodPut, questionURL(id), models.OrderPayload{Order: order}, nil)
}

func (c *Client) DeleteQuestion(ctx context.Context, id uint) error {
	return c.send(ctx, resty.MethodDelete, questionURL(id), nil, nil)
}

func questionURL(id uint) string {
	return fmt.Sprintf("/questions/%d", id)
}

// ===== OPTIONS =====

func (c *Client) ListOptions(ctx context.Context, questionID uint) ([]*models.Option, error) {
	return list[*models.Option](ctx, c, fmt.Sprintf("/questions/%d/options", questionID))
}

func (c *Client) CreateOption(ctx context.Context, questionID uint, payload models.OptionPayload) (*models.Option, error) {
	var option models.Option
	if err := c.send(ctx, resty.MethodPost, fmt.Sprintf("/questions/%d/options", questionID), payload, &option); err != nil {
		return nil, err
	}
	return &option, nil
}

func (c *Client) UpdateOption(ctx context.Context, id uint, payload models.OptionPayload) error {
	return c.send(ctx, resty.MethodPut, optionURL(id), payload, nil)
}

func (c *Client) UpdateOptionOrder(ctx context.Context, id uint, order int) error {
	return c.send(ctx, resty.MethodPut, optionURL(id), models.OrderPayload{Order: order}, nil)
}

func (c *Client) DeleteOption(ctx context.Context, id uint) error {
	return c.send(ctx, resty.MethodDelete, optionURL(id), nil, nil)
}

func optionURL(id uint) string {
	return fmt.Sprintf("/options/%d", id)
}

// ===== HELPERS =====

func list[T ordering.Sequenced](ctx context.Context, c *Client, path string) ([]T, error) {
	data, err := c.do(ctx, resty.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	items, err := NormalizeList[T](data)
	if err != nil {
		return nil, err
	}
	ordering.Sort(items)
	return items, nil
}

func sortTree(course *models.Course) {
	ordering.Sort(course.Modules)
	for _, m := range course.Modules {
		if m.Quiz == nil {
			continue
		}
		ordering.Sort(m.Quiz.Questions)
		for _, q := range m.Quiz.Questions {
			ordering.Sort(q.Options)
		}
	}
}

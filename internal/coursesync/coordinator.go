// Package coursesync pushes an edited course tree to the remote API one entity at
// a time, recording progress so a failed run can be resumed.
package coursesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
)

type Stage string

const (
	StageCourse   Stage = "Course"
	StageModule   Stage = "Module"
	StageQuiz     Stage = "Quiz"
	StageQuestion Stage = "Question"
	StageOption   Stage = "Option"
)

var ErrCourseNotCreated = errors.New("course has no id; create it before syncing")

// Remote is the subset of the course API the pipeline drives.
type Remote interface {
	UpdateCourse(ctx context.Context, id uint, payload models.CoursePayload) error
	CreateModule(ctx context.Context, courseID uint, payload models.ModulePayload) (*models.Module, error)
	UpdateModule(ctx context.Context, id uint, payload models.ModulePayload) error
	CreateQuiz(ctx context.Context, moduleID uint, payload models.QuizPayload) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, id uint, payload models.QuizPayload) error
	CreateQuestion(ctx context.Context, quizID uint, payload models.QuestionPayload) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, payload models.QuestionPayload) error
	CreateOption(ctx context.Context, questionID uint, payload models.OptionPayload) (*models.Option, error)
	UpdateOption(ctx context.Context, id uint, payload models.OptionPayload) error
}

// StepError reports the step the pipeline stopped at. Everything recorded in
// Checkpoint is already persisted server side; nothing is rolled back.
type StepError struct {
	Stage      Stage
	Path       string
	ParentID   uint
	Checkpoint *Checkpoint
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sync stopped at %s step %s (parent %d): %v", e.Stage, e.Path, e.ParentID, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type Coordinator struct {
	remote Remote
	logger utils.Logger
}

func NewCoordinator(remote Remote, logger utils.Logger) *Coordinator {
	return &Coordinator{remote: remote, logger: logger}
}

// Sync walks Course, each Module, its Quiz, each Question and each Option in that
// order. Entities with an id are updated with the current form. Entities without
// one are created under their parent's id, which is written back into the tree,
// unless cp shows an earlier run already created them; those are updated instead.
// The first failure stops the run and is returned as a *StepError.
func (c *Coordinator) Sync(ctx context.Context, course *models.Course, cp *Checkpoint) (*Checkpoint, error) {
	if course.ID == 0 {
		return cp, ErrCourseNotCreated
	}
	if cp == nil || cp.CourseID != course.ID {
		cp = NewCheckpoint(course.ID)
	}
	cp.steps = 0
	run := &pipeline{remote: c.remote, logger: c.logger, cp: cp}

	err := run.upsert(ctx, StageCourse, "course", "", 0, &course.ID,
		func(id uint) error {
			return c.remote.UpdateCourse(ctx, id, models.NewCourseFieldsPayload(course))
		}, nil)
	if err != nil {
		return cp, err
	}

	for i, module := range course.Modules {
		if err := run.module(ctx, course.ID, fmt.Sprintf("module[%d]", i), module); err != nil {
			return cp, err
		}
	}

	c.logger.InfoContext(ctx, "Course synced", "course_id", course.ID, "steps", cp.Len())
	return cp, nil
}

// identity names an entity across runs: by its editor key when it has one,
// otherwise by its server id, scoped under its parent's identity. Entities with
// neither, and everything below them, have no identity and cannot be resumed.
func identity(parent, kind, key string, id uint) string {
	if parent == "" && kind != "module" {
		return ""
	}
	var self string
	switch {
	case key != "":
		self = kind + ":" + key
	case id != 0:
		self = fmt.Sprintf("%s#%d", kind, id)
	default:
		return ""
	}
	if parent == "" {
		return self
	}
	return parent + "/" + self
}

type pipeline struct {
	remote Remote
	logger utils.Logger
	cp     *Checkpoint
}

// upsert updates the entity when it has an id, or when an earlier run created it
// under the same identity. Otherwise it creates it and records the new id.
func (p *pipeline) upsert(ctx context.Context, stage Stage, path, ident string, parentID uint, id *uint,
	update func(id uint) error, create func() (uint, error)) error {
	if *id == 0 {
		if prev, ok := p.cp.CreatedID(ident); ok {
			p.logger.DebugContext(ctx, "Reusing entity created by an earlier sync", "stage", stage, "path", path, "id", prev)
			*id = prev
		}
	}

	var err error
	if *id != 0 {
		err = update(*id)
	} else {
		var created uint
		created, err = create()
		if err == nil && created == 0 {
			err = errors.New("server returned no id for created entity")
		}
		if err == nil {
			*id = created
			p.cp.recordCreate(ident, created)
		}
	}
	if err != nil {
		p.logger.WarnContext(ctx, "Sync step failed", "stage", stage, "path", path, "parent_id", parentID, "error", err)
		return &StepError{Stage: stage, Path: path, ParentID: parentID, Checkpoint: p.cp, Err: err}
	}

	p.cp.complete(path)
	p.logger.DebugContext(ctx, "Sync step done", "stage", stage, "path", path, "id", *id)
	return nil
}

func (p *pipeline) module(ctx context.Context, courseID uint, path string, module *models.Module) error {
	ident := identity("", "module", module.Key, module.ID)
	module.CourseID = courseID
	payload := models.NewModuleFieldsPayload(module)

	err := p.upsert(ctx, StageModule, path, ident, courseID, &module.ID,
		func(id uint) error { return p.remote.UpdateModule(ctx, id, payload) },
		func() (uint, error) {
			created, err := p.remote.CreateModule(ctx, courseID, payload)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
	if err != nil || module.Quiz == nil {
		return err
	}
	return p.quiz(ctx, module.ID, ident, path+".quiz", module.Quiz)
}

func (p *pipeline) quiz(ctx context.Context, moduleID uint, moduleIdent, path string, quiz *models.Quiz) error {
	// one quiz per module, so the module's identity is enough
	ident := ""
	if moduleIdent != "" {
		ident = moduleIdent + "/quiz"
	}
	quiz.ModuleID = moduleID
	payload := models.NewQuizPayload(quiz, false)

	err := p.upsert(ctx, StageQuiz, path, ident, moduleID, &quiz.ID,
		func(id uint) error { return p.remote.UpdateQuiz(ctx, id, payload) },
		func() (uint, error) {
			created, err := p.remote.CreateQuiz(ctx, moduleID, payload)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
	if err != nil {
		return err
	}

	for j, question := range quiz.Questions {
		if err := p.question(ctx, quiz.ID, ident, fmt.Sprintf("%s.question[%d]", path, j), question); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) question(ctx context.Context, quizID uint, quizIdent, path string, question *models.Question) error {
	ident := identity(quizIdent, "question", question.Key, question.ID)
	question.QuizID = quizID
	payload := models.NewQuestionPayload(question, false)

	err := p.upsert(ctx, StageQuestion, path, ident, quizID, &question.ID,
		func(id uint) error { return p.remote.UpdateQuestion(ctx, id, payload) },
		func() (uint, error) {
			created, err := p.remote.CreateQuestion(ctx, quizID, payload)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
	if err != nil {
		return err
	}

	for k, option := range question.Options {
		if err := p.option(ctx, question.ID, ident, fmt.Sprintf("%s.option[%d]", path, k), option); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) option(ctx context.Context, questionID uint, questionIdent, path string, option *models.Option) error {
	ident := identity(questionIdent, "option", option.Key, option.ID)
	option.QuestionID = questionID
	payload := models.NewOptionPayload(option)

	return p.upsert(ctx, StageOption, path, ident, questionID, &option.ID,
		func(id uint) error { return p.remote.UpdateOption(ctx, id, payload) },
		func() (uint, error) {
			created, err := p.remote.CreateOption(ctx, questionID, payload)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
}

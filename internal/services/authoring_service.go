package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/course-authoring-service/internal/coursesync"
	"github.com/SAP-F-2025/course-authoring-service/internal/draft"
	"github.com/SAP-F-2025/course-authoring-service/internal/events"
	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
	"github.com/SAP-F-2025/course-authoring-service/internal/repositories"
	"github.com/SAP-F-2025/course-authoring-service/internal/session"
	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
	"github.com/SAP-F-2025/course-authoring-service/internal/validator"
)

// KeyLastPublished holds the id of the course a draft was just published as,
// until the next page reads it.
const KeyLastPublished = "last_published"

// CourseAPI is the part of the course API the authoring flows use.
type CourseAPI interface {
	coursesync.Remote
	CreateCourse(ctx context.Context, payload models.CoursePayload) (*models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	ModuleSiblings(courseID uint) ordering.SiblingStore[*models.Module]
	QuestionSiblings(quizID uint) ordering.SiblingStore[*models.Question]
	OptionSiblings(questionID uint) ordering.SiblingStore[*models.Option]
	DeleteModule(ctx context.Context, id uint) error
	DeleteQuestion(ctx context.Context, id uint) error
	DeleteOption(ctx context.Context, id uint) error
}

// AuthoringService drives the admin's course authoring flows: drafting and
// publishing a new course, and syncing or reordering an existing one.
type AuthoringService interface {
	// Draft lifecycle
	SaveDraft(ctx context.Context, actor string, form *models.CourseForm) error
	GetDraft(ctx context.Context, actor string) (*models.CourseForm, error)
	DiscardDraft(ctx context.Context, actor string) error
	ValidateDraft(ctx context.Context, form *models.CourseForm) (*ValidationReport, error)
	PublishDraft(ctx context.Context, actor string) (*models.Course, error)
	TakeLastPublished(ctx context.Context, actor string) (uint, error)

	// Existing courses
	LoadCourse(ctx context.Context, courseID uint) (*models.CourseForm, error)
	SyncCourse(ctx context.Context, actor string, courseID uint, form *models.CourseForm) (*SyncResult, error)
	MoveModule(ctx context.Context, actor string, courseID, moduleID uint, direction string) ([]*models.Module, error)
	MoveQuestion(ctx context.Context, actor string, courseID, moduleID, questionID uint, direction string) ([]*models.Question, error)
	MoveOption(ctx context.Context, actor string, courseID, moduleID, questionID, optionID uint, direction string) ([]*models.Option, error)
	DeleteModule(ctx context.Context, actor string, courseID, moduleID uint) ([]*models.Module, error)
	DeleteQuestion(ctx context.Context, actor string, courseID, moduleID, questionID uint) ([]*models.Question, error)
	DeleteOption(ctx context.Context, actor string, courseID, moduleID, questionID, optionID uint) ([]*models.Option, error)
	ListFailedSyncs(ctx context.Context, limit int) ([]*models.SyncCheckpoint, error)
}

// ValidationReport groups validation failures the way the editor shows them:
// course level, and per module index.
type ValidationReport struct {
	Valid        bool                     `json:"valid"`
	CourseErrors ValidationErrors         `json:"course_errors"`
	ModuleErrors map[int]ValidationErrors `json:"module_errors"`
	Modules      []int                    `json:"modules"`
}

type SyncResult struct {
	CourseID uint           `json:"course_id"`
	Steps    int            `json:"steps"`
	Resumed  bool           `json:"resumed"`
	Course   *models.Course `json:"course"`
}

type authoringService struct {
	api         CourseAPI
	drafts      session.Store
	checkpoints repositories.CheckpointRepository
	publisher   events.EventPublisher
	validator   *validator.Validator
	builder     *draft.Builder
	coordinator *coursesync.Coordinator
	logger      *ServiceLogger
}

func NewAuthoringService(
	api CourseAPI,
	drafts session.Store,
	checkpoints repositories.CheckpointRepository,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) AuthoringService {
	return &authoringService{
		api:         api,
		drafts:      drafts,
		checkpoints: checkpoints,
		publisher:   publisher,
		validator:   validator,
		builder:     draft.NewBuilder(),
		coordinator: coursesync.NewCoordinator(api, utils.FromSlogLogger(logger)),
		logger:      NewServiceLogger(logger, LogConfig{Service: "course-authoring", Component: "authoring"}),
	}
}

// ===== DRAFT LIFECYCLE =====

func (s *authoringService) SaveDraft(ctx context.Context, actor string, form *models.CourseForm) (err error) {
	op := s.logger.WithOperation(ctx, "save_draft", actor)
	defer func() { op.LogResult(form.ID, "draft", err) }()

	return s.drafts.Put(ctx, actor, session.KeyDraft, form)
}

func (s *authoringService) GetDraft(ctx context.Context, actor string) (*models.CourseForm, error) {
	var form models.CourseForm
	if err := s.drafts.Get(ctx, actor, session.KeyDraft, &form); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return &form, nil
}

func (s *authoringService) DiscardDraft(ctx context.Context, actor string) (err error) {
	op := s.logger.WithOperation(ctx, "discard_draft", actor)
	defer func() { op.LogResult(0, "draft", err) }()

	return s.drafts.Clear(ctx, actor)
}

func (s *authoringService) ValidateDraft(ctx context.Context, form *models.CourseForm) (*ValidationReport, error) {
	_, err := s.prepare(form)
	if err == nil {
		return &ValidationReport{Valid: true, CourseErrors: ValidationErrors{}, ModuleErrors: map[int]ValidationErrors{}, Modules: []int{}}, nil
	}

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		return nil, err
	}
	courseErrs, moduleErrs := errs.ByModule()
	if courseErrs == nil {
		courseErrs = ValidationErrors{}
	}
	return &ValidationReport{
		Valid:        false,
		CourseErrors: courseErrs,
		ModuleErrors: moduleErrs,
		Modules:      errs.ModuleIndexes(),
	}, nil
}

// PublishDraft creates the drafted course in one aggregated call. The draft is
// only cleared once the API accepted it.
func (s *authoringService) PublishDraft(ctx context.Context, actor string) (course *models.Course, err error) {
	op := s.logger.WithOperation(ctx, "publish_draft", actor)
	defer func() {
		var id uint
		if course != nil {
			id = course.ID
		}
		op.LogResult(id, "course", err)
	}()

	form, err := s.GetDraft(ctx, actor)
	if err != nil {
		return nil, err
	}
	built, err := s.prepare(form)
	if err != nil {
		return nil, err
	}

	created, err := s.api.CreateCourse(ctx, models.NewCoursePayload(built))
	if err != nil {
		return nil, upstream("create course", err)
	}

	if err := s.drafts.Clear(ctx, actor); err != nil {
		s.logger.Warn(ctx, "Failed to clear published draft", "actor", actor, "error", err)
	}
	if err := s.drafts.Put(ctx, actor, KeyLastPublished, created.ID); err != nil {
		s.logger.Warn(ctx, "Failed to record published course", "actor", actor, "error", err)
	}

	s.publish(ctx, events.NewAuthoringEvent(events.EventCoursePublished, events.CoursePublishedEvent{
		CourseID:      created.ID,
		Title:         built.Title,
		ModuleCount:   len(built.Modules),
		QuestionCount: countQuestions(built),
		PublishedBy:   actor,
	}))
	return created, nil
}

func (s *authoringService) TakeLastPublished(ctx context.Context, actor string) (uint, error) {
	var id uint
	if err := s.drafts.Take(ctx, actor, KeyLastPublished, &id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// prepare builds the course tree from the form and runs every validation rule.
func (s *authoringService) prepare(form *models.CourseForm) (*models.Course, error) {
	course, err := s.builder.BuildCourse(form)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDraft(course); err != nil {
		return nil, err
	}
	return course, nil
}

// ===== EXISTING COURSES =====

func (s *authoringService) LoadCourse(ctx context.Context, courseID uint) (*models.CourseForm, error) {
	course, err := s.api.GetCourse(ctx, courseID)
	if err != nil {
		return nil, upstream("get course", err)
	}
	return draft.FormFromCourse(course), nil
}

// SyncCourse pushes an edited course entity by entity, resuming from the stored
// checkpoint when an earlier run stopped part way.
func (s *authoringService) SyncCourse(ctx context.Context, actor string, courseID uint, form *models.CourseForm) (result *SyncResult, err error) {
	op := s.logger.WithOperation(ctx, "sync_course", actor)
	defer func() { op.LogResult(courseID, "course", err) }()

	form.ID = courseID
	course, err := s.prepare(form)
	if err != nil {
		return nil, err
	}
	course.ID = courseID

	cp, err := s.loadCheckpoint(ctx, courseID)
	if err != nil {
		return nil, err
	}
	resumed := cp != nil && len(cp.Created) > 0

	cp, err = s.coordinator.Sync(ctx, course, cp)
	if err != nil {
		s.recordFailure(ctx, actor, cp, err)
		return nil, err
	}

	if err := s.checkpoints.Delete(ctx, coursesync.CheckpointKey(courseID)); err != nil {
		s.logger.Warn(ctx, "Failed to clear sync checkpoint", "course_id", courseID, "error", err)
	}
	s.publish(ctx, events.NewAuthoringEvent(events.EventCourseSynced, events.CourseSyncedEvent{
		CourseID: courseID,
		Steps:    cp.Len(),
		Resumed:  resumed,
		SyncedBy: actor,
	}))

	return &SyncResult{CourseID: courseID, Steps: cp.Len(), Resumed: resumed, Course: course}, nil
}

func (s *authoringService) loadCheckpoint(ctx context.Context, courseID uint) (*coursesync.Checkpoint, error) {
	rec, err := s.checkpoints.GetByKey(ctx, coursesync.CheckpointKey(courseID))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync checkpoint: %w", err)
	}
	return coursesync.CheckpointFromRecord(rec)
}

func (s *authoringService) recordFailure(ctx context.Context, actor string, cp *coursesync.Checkpoint, syncErr error) {
	stepErr, ok := IsSyncStopped(syncErr)
	if !ok || cp == nil {
		return
	}

	rec, err := cp.ToRecord()
	if err == nil {
		rec.Failed = true
		rec.LastError = stepErr.Err.Error()
		err = s.checkpoints.Save(ctx, rec)
	}
	if err != nil {
		s.logger.Warn(ctx, "Failed to store sync checkpoint", "course_id", cp.CourseID, "error", err)
	}

	s.publish(ctx, events.NewAuthoringEvent(events.EventCourseSyncFailed, events.CourseSyncFailedEvent{
		CourseID: cp.CourseID,
		Stage:    string(stepErr.Stage),
		Path:     stepErr.Path,
		ParentID: stepErr.ParentID,
		Error:    stepErr.Err.Error(),
		SyncedBy: actor,
	}))
}

// MoveModule swaps a module with its neighbour. When the second position update
// fails the server's module list is returned along with ErrReorderDiscarded.
func (s *authoringService) MoveModule(ctx context.Context, actor string, courseID, moduleID uint, direction string) (modules []*models.Module, err error) {
	op := s.logger.WithOperation(ctx, "move_module", actor)
	defer func() { op.LogResult(moduleID, "module", err) }()

	dir, ok := ordering.ParseDirection(direction)
	if !ok {
		return nil, ErrInvalidDirection
	}

	course, index, err := s.findModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}

	modules, moved, err := reorder(ctx, s.api.ModuleSiblings(courseID), course.Modules, index, dir)
	if err != nil && !moved {
		return nil, upstream("reorder modules", err)
	}
	if moved {
		s.publish(ctx, events.NewAuthoringEvent(events.EventModuleReordered, events.ModuleReorderedEvent{
			CourseID:  courseID,
			ModuleID:  moduleID,
			Direction: string(dir),
			Order:     ids(modules),
			Discarded: err != nil,
		}))
	}
	return modules, err
}

// MoveQuestion swaps a question with its neighbour in the module's quiz.
func (s *authoringService) MoveQuestion(ctx context.Context, actor string, courseID, moduleID, questionID uint, direction string) (questions []*models.Question, err error) {
	op := s.logger.WithOperation(ctx, "move_question", actor)
	defer func() { op.LogResult(questionID, "question", err) }()

	dir, ok := ordering.ParseDirection(direction)
	if !ok {
		return nil, ErrInvalidDirection
	}

	quiz, err := s.findQuiz(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	index := ordering.IndexOf(quiz.Questions, questionID)
	if index < 0 {
		return nil, ErrQuestionNotFound
	}

	questions, moved, err := reorder(ctx, s.api.QuestionSiblings(quiz.ID), quiz.Questions, index, dir)
	if err != nil && !moved {
		return nil, upstream("reorder questions", err)
	}
	if moved {
		s.publish(ctx, events.NewAuthoringEvent(events.EventQuestionReordered, events.SiblingReorderedEvent{
			CourseID:  courseID,
			ModuleID:  moduleID,
			ParentID:  quiz.ID,
			ItemID:    questionID,
			Direction: string(dir),
			Order:     ids(questions),
			Discarded: err != nil,
		}))
	}
	return questions, err
}

// MoveOption swaps an option with its neighbour in the question.
func (s *authoringService) MoveOption(ctx context.Context, actor string, courseID, moduleID, questionID, optionID uint, direction string) (options []*models.Option, err error) {
	op := s.logger.WithOperation(ctx, "move_option", actor)
	defer func() { op.LogResult(optionID, "option", err) }()

	dir, ok := ordering.ParseDirection(direction)
	if !ok {
		return nil, ErrInvalidDirection
	}

	question, _, _, err := s.findQuestion(ctx, courseID, moduleID, questionID)
	if err != nil {
		return nil, err
	}
	index := ordering.IndexOf(question.Options, optionID)
	if index < 0 {
		return nil, ErrOptionNotFound
	}

	options, moved, err := reorder(ctx, s.api.OptionSiblings(questionID), question.Options, index, dir)
	if err != nil && !moved {
		return nil, upstream("reorder options", err)
	}
	if moved {
		s.publish(ctx, events.NewAuthoringEvent(events.EventOptionReordered, events.SiblingReorderedEvent{
			CourseID:  courseID,
			ModuleID:  moduleID,
			ParentID:  questionID,
			ItemID:    optionID,
			Direction: string(dir),
			Order:     ids(options),
			Discarded: err != nil,
		}))
	}
	return options, err
}

// DeleteModule deletes a module and closes the gap it leaves in the course.
// When renumbering fails the server's module list is returned along with
// ErrReorderDiscarded; the module itself stays deleted.
func (s *authoringService) DeleteModule(ctx context.Context, actor string, courseID, moduleID uint) (modules []*models.Module, err error) {
	op := s.logger.WithOperation(ctx, "delete_module", actor)
	defer func() { op.LogResult(moduleID, "module", err) }()

	course, index, err := s.findModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}

	if err := s.api.DeleteModule(ctx, moduleID); err != nil {
		return nil, upstream("delete module", err)
	}
	modules, err = ordering.RemoveAndPersist(ctx, s.api.ModuleSiblings(courseID), course.Modules, index)
	s.publish(ctx, events.NewAuthoringEvent(events.EventModuleDeleted, events.EntityDeletedEvent{
		CourseID:  courseID,
		ParentID:  courseID,
		ItemID:    moduleID,
		Order:     ids(modules),
		Discarded: err != nil,
		DeletedBy: actor,
	}))
	return modules, err
}

// DeleteQuestion deletes a question and renumbers the rest of the quiz. A quiz
// is never left without questions.
func (s *authoringService) DeleteQuestion(ctx context.Context, actor string, courseID, moduleID, questionID uint) (questions []*models.Question, err error) {
	op := s.logger.WithOperation(ctx, "delete_question", actor)
	defer func() { op.LogResult(questionID, "question", err) }()

	course, moduleIndex, err := s.findModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	quiz := course.Modules[moduleIndex].Quiz
	if quiz == nil {
		return nil, ErrQuestionNotFound
	}
	index := ordering.IndexOf(quiz.Questions, questionID)
	if index < 0 {
		return nil, ErrQuestionNotFound
	}

	remaining := &models.Quiz{Questions: without(quiz.Questions, index)}
	if errs := s.validator.ValidateQuiz(remaining); len(errs) > 0 {
		return nil, errs.WithPrefix("quiz.").InModule(moduleIndex)
	}

	if err := s.api.DeleteQuestion(ctx, questionID); err != nil {
		return nil, upstream("delete question", err)
	}
	questions, err = ordering.RemoveAndPersist(ctx, s.api.QuestionSiblings(quiz.ID), quiz.Questions, index)
	s.publish(ctx, events.NewAuthoringEvent(events.EventQuestionDeleted, events.EntityDeletedEvent{
		CourseID:  courseID,
		ParentID:  quiz.ID,
		ItemID:    questionID,
		Order:     ids(questions),
		Discarded: err != nil,
		DeletedBy: actor,
	}))
	return questions, err
}

// DeleteOption deletes an option and renumbers the rest. The remaining options
// must still satisfy the question rules.
func (s *authoringService) DeleteOption(ctx context.Context, actor string, courseID, moduleID, questionID, optionID uint) (options []*models.Option, err error) {
	op := s.logger.WithOperation(ctx, "delete_option", actor)
	defer func() { op.LogResult(optionID, "option", err) }()

	question, moduleIndex, questionIndex, err := s.findQuestion(ctx, courseID, moduleID, questionID)
	if err != nil {
		return nil, err
	}
	index := ordering.IndexOf(question.Options, optionID)
	if index < 0 {
		return nil, ErrOptionNotFound
	}

	remaining := &models.Question{QuestionType: question.QuestionType, Options: without(question.Options, index)}
	if errs := s.validator.ValidateQuestion(remaining); len(errs) > 0 {
		return nil, errs.WithPrefix(fmt.Sprintf("quiz.questions[%d].", questionIndex)).InModule(moduleIndex)
	}

	if err := s.api.DeleteOption(ctx, optionID); err != nil {
		return nil, upstream("delete option", err)
	}
	options, err = ordering.RemoveAndPersist(ctx, s.api.OptionSiblings(questionID), question.Options, index)
	s.publish(ctx, events.NewAuthoringEvent(events.EventOptionDeleted, events.EntityDeletedEvent{
		CourseID:  courseID,
		ParentID:  questionID,
		ItemID:    optionID,
		Order:     ids(options),
		Discarded: err != nil,
		DeletedBy: actor,
	}))
	return options, err
}

func (s *authoringService) ListFailedSyncs(ctx context.Context, limit int) ([]*models.SyncCheckpoint, error) {
	return s.checkpoints.ListFailed(ctx, limit)
}

// ===== HELPERS =====

// publish never fails the operation; the event is logged and dropped.
func (s *authoringService) publish(ctx context.Context, event *events.AuthoringEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(ctx, "Authoring event dropped", "event_type", event.Type, "error", err)
	}
}

func countQuestions(course *models.Course) int {
	n := 0
	for _, m := range course.Modules {
		if m.Quiz != nil {
			n += len(m.Quiz.Questions)
		}
	}
	return n
}

func (s *authoringService) findModule(ctx context.Context, courseID, moduleID uint) (*models.Course, int, error) {
	course, err := s.api.GetCourse(ctx, courseID)
	if err != nil {
		return nil, -1, upstream("get course", err)
	}
	index := ordering.IndexOf(course.Modules, moduleID)
	if index < 0 {
		return nil, -1, ErrModuleNotFound
	}
	return course, index, nil
}

func (s *authoringService) findQuiz(ctx context.Context, courseID, moduleID uint) (*models.Quiz, error) {
	course, index, err := s.findModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	if quiz := course.Modules[index].Quiz; quiz != nil {
		return quiz, nil
	}
	return nil, ErrQuestionNotFound
}

// findQuestion also returns where the question sits: the module's index in the
// course and the question's index in the quiz.
func (s *authoringService) findQuestion(ctx context.Context, courseID, moduleID, questionID uint) (*models.Question, int, int, error) {
	course, moduleIndex, err := s.findModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, -1, -1, err
	}
	quiz := course.Modules[moduleIndex].Quiz
	if quiz == nil {
		return nil, -1, -1, ErrQuestionNotFound
	}
	index := ordering.IndexOf(quiz.Questions, questionID)
	if index < 0 {
		return nil, -1, -1, ErrQuestionNotFound
	}
	return quiz.Questions[index], moduleIndex, index, nil
}

// reorder moves one sibling and persists both positions. moved is false when
// the move crossed a list boundary, or when nothing changed on the server.
func reorder[T ordering.Sequenced](ctx context.Context, store ordering.SiblingStore[T], items []T, index int, dir ordering.Direction) ([]T, bool, error) {
	if ordering.Neighbor(len(items), index, dir) < 0 {
		return items, false, nil
	}
	out, err := ordering.MoveAndPersist(ctx, store, items, index, dir)
	if err != nil && !errors.Is(err, ordering.ErrReorderDiscarded) {
		return out, false, err
	}
	return out, true, err
}

// without returns a copy of items minus the one at index, orders untouched.
func without[T any](items []T, index int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}

func ids[T ordering.Sequenced](items []T) []uint {
	out := make([]uint, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetID())
	}
	return out
}

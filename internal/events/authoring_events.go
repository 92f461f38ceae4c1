package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the authoring events other services may react to
type EventType string

const (
	EventCoursePublished   EventType = "course.published"
	EventCourseSynced      EventType = "course.synced"
	EventCourseSyncFailed  EventType = "course.sync_failed"
	EventModuleReordered   EventType = "module.reordered"
	EventQuestionReordered EventType = "question.reordered"
	EventOptionReordered   EventType = "option.reordered"
	EventModuleDeleted     EventType = "module.deleted"
	EventQuestionDeleted   EventType = "question.deleted"
	EventOptionDeleted     EventType = "option.deleted"
)

const (
	eventSource  = "course-authoring-service"
	eventVersion = "1.0"
)

// AuthoringEvent is the envelope every authoring event is published in
type AuthoringEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewAuthoringEvent(eventType EventType, data interface{}) *AuthoringEvent {
	return &AuthoringEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// Event payloads

type CoursePublishedEvent struct {
	CourseID      uint   `json:"course_id"`
	Title         string `json:"title"`
	ModuleCount   int    `json:"module_count"`
	QuestionCount int    `json:"question_count"`
	PublishedBy   string `json:"published_by"`
}

type CourseSyncedEvent struct {
	CourseID uint   `json:"course_id"`
	Steps    int    `json:"steps"`
	Resumed  bool   `json:"resumed"`
	SyncedBy string `json:"synced_by"`
}

type CourseSyncFailedEvent struct {
	CourseID uint   `json:"course_id"`
	Stage    string `json:"stage"`
	Path     string `json:"path"`
	ParentID uint   `json:"parent_id"`
	Error    string `json:"error"`
	SyncedBy string `json:"synced_by"`
}

type ModuleReorderedEvent struct {
	CourseID  uint   `json:"course_id"`
	ModuleID  uint   `json:"module_id"`
	Direction string `json:"direction"`
	Order     []uint `json:"order"` // module ids in display order
	Discarded bool   `json:"discarded"`
}

// SiblingReorderedEvent is published when a question moves within its quiz or an
// option within its question. ParentID is the quiz or question id.
type SiblingReorderedEvent struct {
	CourseID  uint   `json:"course_id"`
	ModuleID  uint   `json:"module_id"`
	ParentID  uint   `json:"parent_id"`
	ItemID    uint   `json:"item_id"`
	Direction string `json:"direction"`
	Order     []uint `json:"order"`
	Discarded bool   `json:"discarded"`
}

type EntityDeletedEvent struct {
	CourseID  uint   `json:"course_id"`
	ParentID  uint   `json:"parent_id"`
	ItemID    uint   `json:"item_id"`
	Order     []uint `json:"order"` // remaining sibling ids in display order
	Discarded bool   `json:"discarded"`
	DeletedBy string `json:"deleted_by"`
}

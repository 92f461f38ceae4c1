package coursesync

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
)

// Checkpoint records what a sync run left on the server. Created maps the
// identity of every entity the pipeline created ("module:intro/quiz",
// "module#10/quiz/question:q1") to its server id, so a retry updates those
// entities instead of creating them twice. Updates are not recorded: they are
// idempotent and always re-issued with the current form.
type Checkpoint struct {
	CourseID uint
	LastStep string
	Created  map[string]uint
	steps    int
}

type checkpointState struct {
	Created   map[string]uint `json:"created"`
	Completed int             `json:"completed"`
}

func NewCheckpoint(courseID uint) *Checkpoint {
	return &Checkpoint{CourseID: courseID, Created: make(map[string]uint)}
}

// CreatedID returns the server id an earlier run created for identity.
func (c *Checkpoint) CreatedID(identity string) (uint, bool) {
	if identity == "" {
		return 0, false
	}
	id, ok := c.Created[identity]
	return id, ok
}

func (c *Checkpoint) recordCreate(identity string, id uint) {
	if identity != "" {
		c.Created[identity] = id
	}
}

func (c *Checkpoint) complete(path string) {
	c.LastStep = path
	c.steps++
}

// Len is the number of steps completed by the latest run.
func (c *Checkpoint) Len() int {
	return c.steps
}

// CheckpointKey is the storage key of a course's checkpoint.
func CheckpointKey(courseID uint) string {
	return fmt.Sprintf("course:%d", courseID)
}

// ToRecord converts the checkpoint into its persisted form.
func (c *Checkpoint) ToRecord() (*models.SyncCheckpoint, error) {
	state, err := json.Marshal(checkpointState{Created: c.Created, Completed: c.steps})
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkpoint steps: %w", err)
	}
	return &models.SyncCheckpoint{
		Key:      CheckpointKey(c.CourseID),
		CourseID: c.CourseID,
		LastStep: c.LastStep,
		Steps:    datatypes.JSON(state),
	}, nil
}

// CheckpointFromRecord restores a persisted checkpoint.
func CheckpointFromRecord(rec *models.SyncCheckpoint) (*Checkpoint, error) {
	cp := NewCheckpoint(rec.CourseID)
	cp.LastStep = rec.LastStep
	if len(rec.Steps) > 0 {
		var state checkpointState
		if err := json.Unmarshal(rec.Steps, &state); err != nil {
			return nil, fmt.Errorf("failed to decode checkpoint steps: %w", err)
		}
		cp.steps = state.Completed
		if state.Created != nil {
			cp.Created = state.Created
		}
	}
	return cp, nil
}

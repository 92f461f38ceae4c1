package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncCheckpoint records how far a course sync got: the last step that completed and
// the server id of every entity the pipeline touched, keyed by entity path.
type SyncCheckpoint struct {
	Key       string         `json:"key" gorm:"primaryKey;size:100"`
	CourseID  uint           `json:"course_id" gorm:"index"`
	LastStep  string         `json:"last_step" gorm:"size:255"`
	Steps     datatypes.JSON `json:"steps" gorm:"type:jsonb"` // map[path]id
	Failed    bool           `json:"failed"`
	LastError string         `json:"last_error" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (SyncCheckpoint) TableName() string {
	return "sync_checkpoints"
}

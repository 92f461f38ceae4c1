package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
)

var ErrNotFound = errors.New("record not found")

// CheckpointRepository persists sync progress so an interrupted course sync can
// resume where it stopped.
type CheckpointRepository interface {
	// Save inserts or replaces the checkpoint stored under its key.
	Save(ctx context.Context, checkpoint *models.SyncCheckpoint) error
	GetByKey(ctx context.Context, key string) (*models.SyncCheckpoint, error)
	Delete(ctx context.Context, key string) error
	// ListFailed returns checkpoints of syncs that stopped on an error, newest first.
	ListFailed(ctx context.Context, limit int) ([]*models.SyncCheckpoint, error)
}

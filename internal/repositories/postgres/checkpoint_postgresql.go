package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/repositories"
)

const defaultListLimit = 50

type CheckpointPostgreSQL struct {
	db *gorm.DB
}

func NewCheckpointPostgreSQL(db *gorm.DB) repositories.CheckpointRepository {
	return &CheckpointPostgreSQL{db: db}
}

// Save upserts the checkpoint by key
func (c *CheckpointPostgreSQL) Save(ctx context.Context, checkpoint *models.SyncCheckpoint) error {
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"course_id", "last_step", "steps", "failed", "last_error", "updated_at"}),
		}).
		Create(checkpoint).Error
	if err != nil {
		return fmt.Errorf("failed to save sync checkpoint %s: %w", checkpoint.Key, err)
	}
	return nil
}

// GetByKey retrieves a checkpoint, or repositories.ErrNotFound
func (c *CheckpointPostgreSQL) GetByKey(ctx context.Context, key string) (*models.SyncCheckpoint, error) {
	var checkpoint models.SyncCheckpoint
	if err := c.db.WithContext(ctx).Where(`"key" = ?`, key).First(&checkpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sync checkpoint %s: %w", key, err)
	}
	return &checkpoint, nil
}

func (c *CheckpointPostgreSQL) Delete(ctx context.Context, key string) error {
	if err := c.db.WithContext(ctx).Where(`"key" = ?`, key).Delete(&models.SyncCheckpoint{}).Error; err != nil {
		return fmt.Errorf("failed to delete sync checkpoint %s: %w", key, err)
	}
	return nil
}

func (c *CheckpointPostgreSQL) ListFailed(ctx context.Context, limit int) ([]*models.SyncCheckpoint, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var checkpoints []*models.SyncCheckpoint
	if err := c.db.WithContext(ctx).
		Where("failed = ?", true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&checkpoints).Error; err != nil {
		return nil, fmt.Errorf("failed to list failed sync checkpoints: %w", err)
	}
	return checkpoints, nil
}

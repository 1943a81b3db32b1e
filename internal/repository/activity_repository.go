package repository

import (
	"context"

	"gorm.io/gorm"

	"vibepm/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity row
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByProject returns one page of a project's feed, newest first, and the feed size.
func (r *ActivityRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]model.Activity, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Activity{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	activities := []model.Activity{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}
